package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/ternarybob/torque/internal/models"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// JobListOptions controls filtering and ordering of job record lists
type JobListOptions struct {
	Month    time.Month // Filter to a calendar month (with Year)
	Year     int
	Limit    int
	Offset   int
	OrderBy  string // Field name, default "DateCreated"
	OrderDir string // "ASC" or "DESC"
}

// JobStorage persists job records
type JobStorage interface {
	SaveJob(ctx context.Context, record *models.JobRecord) error
	GetJob(ctx context.Context, id string) (*models.JobRecord, error)
	ListJobs(ctx context.Context, opts *JobListOptions) ([]*models.JobRecord, error)
	DeleteJob(ctx context.Context, id string) error
	// ReplaceAll upserts the given records in a single transaction. Used by
	// the import reconciler so a failed merge never leaves partial writes.
	ReplaceAll(ctx context.Context, records []*models.JobRecord) error
	CountJobs(ctx context.Context) (int, error)
}

// SettingsStorage persists user settings (work schedule, PIN credential)
type SettingsStorage interface {
	GetWorkSchedule(ctx context.Context) (*models.WorkSchedule, error)
	SaveWorkSchedule(ctx context.Context, schedule *models.WorkSchedule) error
	GetPINCredential(ctx context.Context) (*models.PINCredential, error)
	SavePINCredential(ctx context.Context, cred *models.PINCredential) error
}

// ImportSessionStorage persists in-flight import sessions
type ImportSessionStorage interface {
	SaveSession(ctx context.Context, session *models.ImportSession) error
	GetSession(ctx context.Context, id string) (*models.ImportSession, error)
	DeleteSession(ctx context.Context, id string) error
	CountOpenSessions(ctx context.Context) (int, error)
}

// StorageManager provides access to all storage implementations
type StorageManager interface {
	JobStorage() JobStorage
	SettingsStorage() SettingsStorage
	ImportSessionStorage() ImportSessionStorage
	Close() error
}
