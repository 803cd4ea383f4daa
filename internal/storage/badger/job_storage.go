package badger

import (
	"context"
	"fmt"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/torque/internal/interfaces"
	"github.com/ternarybob/torque/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// JobStorage implements the JobStorage interface for Badger
type JobStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewJobStorage creates a new JobStorage instance
func NewJobStorage(db *BadgerDB, logger arbor.ILogger) interfaces.JobStorage {
	return &JobStorage{
		db:     db,
		logger: logger,
	}
}

// SaveJob upserts a job record. On update the stored DateCreated is
// preserved: the creation timestamp is immutable after first persistence.
func (s *JobStorage) SaveJob(ctx context.Context, record *models.JobRecord) error {
	if record == nil {
		return fmt.Errorf("job record is required")
	}
	if record.ID == "" {
		return fmt.Errorf("job record ID is required")
	}

	var existing models.JobRecord
	if err := s.db.Store().Get(record.ID, &existing); err == nil {
		record.DateCreated = existing.DateCreated
	}

	if err := s.db.Store().Upsert(record.ID, record); err != nil {
		return fmt.Errorf("failed to save job record: %w", err)
	}
	return nil
}

func (s *JobStorage) GetJob(ctx context.Context, id string) (*models.JobRecord, error) {
	var record models.JobRecord
	if err := s.db.Store().Get(id, &record); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get job record: %w", err)
	}
	return &record, nil
}

func (s *JobStorage) ListJobs(ctx context.Context, opts *interfaces.JobListOptions) ([]*models.JobRecord, error) {
	query := badgerhold.Where("ID").Ne("")

	if opts != nil {
		if opts.Year != 0 && opts.Month != 0 {
			// Month filter uses DateCreated bounds; imported records with an
			// earlier StartedAt are re-bucketed by the stats service.
			start := time.Date(opts.Year, opts.Month, 1, 0, 0, 0, 0, time.UTC)
			end := start.AddDate(0, 1, 0)
			query = query.And("DateCreated").Ge(start).And("DateCreated").Lt(end)
		}
		if opts.Limit > 0 {
			query = query.Limit(opts.Limit)
		}
		if opts.Offset > 0 {
			query = query.Skip(opts.Offset)
		}
		if opts.OrderBy != "" {
			if opts.OrderDir == "DESC" {
				query = query.SortBy(opts.OrderBy).Reverse()
			} else {
				query = query.SortBy(opts.OrderBy)
			}
		} else {
			query = query.SortBy("DateCreated").Reverse()
		}
	} else {
		query = query.SortBy("DateCreated").Reverse()
	}

	var records []models.JobRecord
	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to list job records: %w", err)
	}

	result := make([]*models.JobRecord, len(records))
	for i := range records {
		result[i] = &records[i]
	}
	return result, nil
}

func (s *JobStorage) DeleteJob(ctx context.Context, id string) error {
	if err := s.db.Store().Delete(id, &models.JobRecord{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return interfaces.ErrNotFound
		}
		return fmt.Errorf("failed to delete job record: %w", err)
	}
	return nil
}

// ReplaceAll upserts all given records in a single Badger transaction.
// Either every record lands or none do, so a failed import merge never
// leaves the collection partially written.
func (s *JobStorage) ReplaceAll(ctx context.Context, records []*models.JobRecord) error {
	err := s.db.Store().Badger().Update(func(txn *badgerdb.Txn) error {
		for _, record := range records {
			if record.ID == "" {
				return fmt.Errorf("job record ID is required")
			}
			if err := s.db.Store().TxUpsert(txn, record.ID, record); err != nil {
				return fmt.Errorf("failed to upsert job record %s: %w", record.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace job collection: %w", err)
	}

	s.logger.Debug().Int("count", len(records)).Msg("Replaced job collection")
	return nil
}

func (s *JobStorage) CountJobs(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.JobRecord{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count job records: %w", err)
	}
	return int(count), nil
}
