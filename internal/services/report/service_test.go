package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/torque/internal/interfaces"
	"github.com/ternarybob/torque/internal/models"
)

type fixedJobStorage struct {
	records []*models.JobRecord
}

func (f *fixedJobStorage) SaveJob(context.Context, *models.JobRecord) error { return nil }
func (f *fixedJobStorage) GetJob(context.Context, string) (*models.JobRecord, error) {
	return nil, interfaces.ErrNotFound
}
func (f *fixedJobStorage) ListJobs(context.Context, *interfaces.JobListOptions) ([]*models.JobRecord, error) {
	return f.records, nil
}
func (f *fixedJobStorage) DeleteJob(context.Context, string) error             { return nil }
func (f *fixedJobStorage) ReplaceAll(context.Context, []*models.JobRecord) error { return nil }
func (f *fixedJobStorage) CountJobs(context.Context) (int, error)              { return len(f.records), nil }

type defaultSettings struct{}

func (defaultSettings) GetWorkSchedule(context.Context) (*models.WorkSchedule, error) {
	def := models.DefaultWorkSchedule()
	return &def, nil
}
func (defaultSettings) SaveWorkSchedule(context.Context, *models.WorkSchedule) error { return nil }
func (defaultSettings) GetPINCredential(context.Context) (*models.PINCredential, error) {
	return nil, interfaces.ErrNotFound
}
func (defaultSettings) SavePINCredential(context.Context, *models.PINCredential) error { return nil }

func TestMonthly(t *testing.T) {
	ctx := context.Background()
	today := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	records := []*models.JobRecord{
		{ID: "a", WIPNumber: "11111", AWValue: 48, TimeInMinutes: 240, DateCreated: time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)},
		{ID: "b", WIPNumber: "22222", AWValue: 24, TimeInMinutes: 120, DateCreated: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)},
	}

	svc := NewService(&fixedJobStorage{records: records}, defaultSettings{}, "Test Workshop", arbor.NewLogger())

	content, err := svc.Monthly(ctx, time.March, 2026, today)
	require.NoError(t, err)
	require.NotEmpty(t, content)
	assert.Equal(t, "%PDF", string(content[:4]), "output must be a PDF document")

	// An empty month still renders a report
	empty, err := svc.Monthly(ctx, time.July, 2026, today)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(empty[:4]))
}
