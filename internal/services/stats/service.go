package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/torque/internal/interfaces"
	"github.com/ternarybob/torque/internal/models"
)

// Period identifies a statistics aggregation window
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Summary is the aggregate surfaced to display screens for one period.
type Summary struct {
	Period         Period  `json:"period"`
	From           string  `json:"from"`
	To             string  `json:"to"`
	JobCount       int     `json:"job_count"`
	TotalAWs       int     `json:"total_aws"`
	TotalMinutes   int     `json:"total_minutes"`
	FormattedTime  string  `json:"formatted_time"`
	SoldHours      float64 `json:"sold_hours"`
	AvailableHours float64 `json:"available_hours"`
	Efficiency     int     `json:"efficiency"`
	Status         string  `json:"status"`
	Color          string  `json:"color"`
}

// Service aggregates stored job records into period summaries.
type Service struct {
	jobStorage      interfaces.JobStorage
	settingsStorage interfaces.SettingsStorage
	logger          arbor.ILogger
}

// NewService creates a new statistics service
func NewService(jobStorage interfaces.JobStorage, settingsStorage interfaces.SettingsStorage, logger arbor.ILogger) *Service {
	return &Service{
		jobStorage:      jobStorage,
		settingsStorage: settingsStorage,
		logger:          logger,
	}
}

// Summarize computes the aggregate for the period containing the reference
// date. "today" is threaded explicitly so callers (and tests) control the
// available-hours cutoff.
func (s *Service) Summarize(ctx context.Context, period Period, reference, today time.Time) (*Summary, error) {
	records, err := s.jobStorage.ListJobs(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load job records: %w", err)
	}

	schedule, err := s.settingsStorage.GetWorkSchedule(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load work schedule: %w", err)
	}

	var (
		bucket    []*models.JobRecord
		from, to  time.Time
		available float64
	)

	switch period {
	case PeriodDay:
		bucket = DailyRecords(records, reference)
		from = time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, reference.Location())
		to = from.AddDate(0, 0, 1)
		available = AvailableHoursInRange(*schedule, from, to, today)
	case PeriodWeek:
		bucket = WeeklyRecords(records, reference)
		from = WeekStart(reference)
		to = from.AddDate(0, 0, 7)
		available = AvailableHoursInRange(*schedule, from, to, today)
	case PeriodMonth:
		bucket = RecordsByMonth(records, reference.Month(), reference.Year())
		from = time.Date(reference.Year(), reference.Month(), 1, 0, 0, 0, 0, reference.Location())
		to = from.AddDate(0, 1, 0)
		available = AvailableHoursToDate(*schedule, reference.Month(), reference.Year(), today)
	default:
		return nil, fmt.Errorf("unknown statistics period: %s", period)
	}

	totalAWs := TotalAWs(bucket)
	totalMinutes := totalAWs * models.MinutesPerAW
	efficiency := Efficiency(totalAWs, available)

	return &Summary{
		Period:         period,
		From:           from.Format("2006-01-02"),
		To:             to.AddDate(0, 0, -1).Format("2006-01-02"),
		JobCount:       len(bucket),
		TotalAWs:       totalAWs,
		TotalMinutes:   totalMinutes,
		FormattedTime:  FormatTime(totalMinutes),
		SoldHours:      SoldHours(totalAWs),
		AvailableHours: available,
		Efficiency:     efficiency,
		Status:         EfficiencyStatus(efficiency),
		Color:          EfficiencyColor(efficiency),
	}, nil
}
