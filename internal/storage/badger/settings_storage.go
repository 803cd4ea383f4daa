package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/torque/internal/interfaces"
	"github.com/ternarybob/torque/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

const (
	workScheduleKey  = "work_schedule"
	pinCredentialKey = "pin_credential"
)

// SettingsStorage implements the SettingsStorage interface for Badger
type SettingsStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSettingsStorage creates a new SettingsStorage instance
func NewSettingsStorage(db *BadgerDB, logger arbor.ILogger) interfaces.SettingsStorage {
	return &SettingsStorage{
		db:     db,
		logger: logger,
	}
}

// GetWorkSchedule returns the stored schedule, or the Mon-Fri 8h default
// when none has been saved yet.
func (s *SettingsStorage) GetWorkSchedule(ctx context.Context) (*models.WorkSchedule, error) {
	var schedule models.WorkSchedule
	if err := s.db.Store().Get(workScheduleKey, &schedule); err != nil {
		if err == badgerhold.ErrNotFound {
			defaultSchedule := models.DefaultWorkSchedule()
			return &defaultSchedule, nil
		}
		return nil, fmt.Errorf("failed to get work schedule: %w", err)
	}
	return &schedule, nil
}

func (s *SettingsStorage) SaveWorkSchedule(ctx context.Context, schedule *models.WorkSchedule) error {
	if schedule == nil {
		return fmt.Errorf("work schedule is required")
	}
	if err := s.db.Store().Upsert(workScheduleKey, schedule); err != nil {
		return fmt.Errorf("failed to save work schedule: %w", err)
	}
	return nil
}

func (s *SettingsStorage) GetPINCredential(ctx context.Context) (*models.PINCredential, error) {
	var cred models.PINCredential
	if err := s.db.Store().Get(pinCredentialKey, &cred); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get PIN credential: %w", err)
	}
	return &cred, nil
}

func (s *SettingsStorage) SavePINCredential(ctx context.Context, cred *models.PINCredential) error {
	if cred == nil {
		return fmt.Errorf("PIN credential is required")
	}
	if err := s.db.Store().Upsert(pinCredentialKey, cred); err != nil {
		return fmt.Errorf("failed to save PIN credential: %w", err)
	}
	return nil
}
