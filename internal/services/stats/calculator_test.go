package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/torque/internal/models"
)

func record(id string, aws int, effective time.Time) *models.JobRecord {
	return &models.JobRecord{
		ID:            id,
		WIPNumber:     "12345",
		AWValue:       aws,
		TimeInMinutes: aws * models.MinutesPerAW,
		DateCreated:   effective,
	}
}

func TestSoldHours(t *testing.T) {
	// 12 AWs * 5 minutes = 1 hour
	assert.Equal(t, 1.0, SoldHours(12))
	assert.Equal(t, 0.0, SoldHours(0))
	assert.Equal(t, 8.0, SoldHours(96))
}

func TestEfficiency(t *testing.T) {
	t.Run("zero available hours yields zero not NaN", func(t *testing.T) {
		assert.Equal(t, 0, Efficiency(50, 0))
		assert.Equal(t, 0, Efficiency(0, 0))
		assert.Equal(t, 0, Efficiency(50, -1))
	})

	t.Run("rounds to nearest integer percentage", func(t *testing.T) {
		// 96 AWs = 8 sold hours against 8 available = 100%
		assert.Equal(t, 100, Efficiency(96, 8))
		// 4 sold hours against 8 available = 50%
		assert.Equal(t, 50, Efficiency(48, 8))
	})
}

func TestEfficiencyBands(t *testing.T) {
	tests := []struct {
		efficiency int
		status     string
		color      string
	}{
		{0, StatusBelowTarget, "red"},
		{69, StatusBelowTarget, "red"},
		{70, StatusOnTarget, "green"},
		{100, StatusOnTarget, "green"},
		{101, StatusExceeding, "gold"},
		{150, StatusExceeding, "gold"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, EfficiencyStatus(tt.efficiency), "efficiency %d", tt.efficiency)
		assert.Equal(t, tt.color, EfficiencyColor(tt.efficiency), "efficiency %d", tt.efficiency)
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected time.Time
	}{
		{
			"wednesday maps to preceding monday",
			time.Date(2026, 3, 11, 15, 30, 0, 0, time.UTC),
			time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		},
		{
			"monday maps to itself",
			time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		},
		{
			"sunday maps to monday six days earlier",
			time.Date(2026, 3, 15, 23, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WeekStart(tt.input))
		})
	}
}

func TestBucketing(t *testing.T) {
	march10 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	march12 := time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC)
	april2 := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)

	records := []*models.JobRecord{
		record("a", 10, march10),
		record("b", 20, march12),
		record("c", 30, april2),
	}

	t.Run("by month", func(t *testing.T) {
		monthly := RecordsByMonth(records, time.March, 2026)
		assert.Len(t, monthly, 2)
		assert.Equal(t, 30, TotalAWs(monthly))
	})

	t.Run("by day", func(t *testing.T) {
		daily := DailyRecords(records, march10)
		assert.Len(t, daily, 1)
		assert.Equal(t, "a", daily[0].ID)
	})

	t.Run("by week includes monday through sunday", func(t *testing.T) {
		// March 10 2026 is a Tuesday; its week is Mar 9 - Mar 15
		weekly := WeeklyRecords(records, march10)
		assert.Len(t, weekly, 2)
	})

	t.Run("started_at overrides date_created for bucketing", func(t *testing.T) {
		started := time.Date(2026, 2, 5, 8, 0, 0, 0, time.UTC)
		r := record("d", 5, march10)
		r.StartedAt = &started

		feb := RecordsByMonth([]*models.JobRecord{r}, time.February, 2026)
		assert.Len(t, feb, 1)
		mar := RecordsByMonth([]*models.JobRecord{r}, time.March, 2026)
		assert.Empty(t, mar)
	})
}

func TestAvailableHoursToDate(t *testing.T) {
	schedule := models.DefaultWorkSchedule()

	t.Run("counts weekdays up to and including today", func(t *testing.T) {
		// March 2026: the 1st is a Sunday. Through Tuesday the 10th there are
		// 7 weekdays (Mon 2 - Fri 6, Mon 9, Tue 10).
		today := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, 56.0, AvailableHoursToDate(schedule, time.March, 2026, today))
	})

	t.Run("past month counts every working day", func(t *testing.T) {
		// February 2026 has 20 weekdays
		today := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, 160.0, AvailableHoursToDate(schedule, time.February, 2026, today))
	})

	t.Run("future month yields zero", func(t *testing.T) {
		today := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, 0.0, AvailableHoursToDate(schedule, time.April, 2026, today))
	})
}

func TestAvailableHoursInRange(t *testing.T) {
	schedule := models.DefaultWorkSchedule()

	// Week of Mon Mar 9 2026, today is Wednesday the 11th: Mon-Wed = 3 days
	from := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	today := time.Date(2026, 3, 11, 16, 0, 0, 0, time.UTC)
	assert.Equal(t, 24.0, AvailableHoursInRange(schedule, from, to, today))

	// A fully elapsed week counts all five working days
	pastToday := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 40.0, AvailableHoursInRange(schedule, from, to, pastToday))
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "0h 0m", FormatTime(0))
	assert.Equal(t, "1h 0m", FormatTime(60))
	assert.Equal(t, "2h 35m", FormatTime(155))
	// Hours are not capped at 24
	assert.Equal(t, "25h 0m", FormatTime(1500))
}
