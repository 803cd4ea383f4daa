// Package stats implements the efficiency and statistics calculator:
// pure, side-effect-free aggregation over job record collections.
//
// Period policy: weeks start on Monday. All bucketing uses each record's
// effective date (StartedAt when set, else DateCreated). "Today" is always
// an explicit parameter, never an implicit clock read.
package stats

import (
	"fmt"
	"math"
	"time"

	"github.com/ternarybob/torque/internal/models"
)

// Efficiency band thresholds (integer percentages).
// <70 is below target, 70-100 is on target, >100 is exceeding.
const (
	EfficiencyTargetMin = 70
	EfficiencyTargetMax = 100
)

// Display bands for an efficiency percentage.
const (
	StatusBelowTarget = "Below Target"
	StatusOnTarget    = "On Target"
	StatusExceeding   = "Exceeding"
)

// RecordsByMonth filters records whose effective date falls within the given
// calendar month. Input order is preserved.
func RecordsByMonth(records []*models.JobRecord, month time.Month, year int) []*models.JobRecord {
	var result []*models.JobRecord
	for _, r := range records {
		d := r.EffectiveDate()
		if d.Year() == year && d.Month() == month {
			result = append(result, r)
		}
	}
	return result
}

// DailyRecords filters records whose effective date falls on the same
// calendar day as the reference date.
func DailyRecords(records []*models.JobRecord, reference time.Time) []*models.JobRecord {
	var result []*models.JobRecord
	for _, r := range records {
		d := r.EffectiveDate()
		if d.Year() == reference.Year() && d.YearDay() == reference.YearDay() {
			result = append(result, r)
		}
	}
	return result
}

// WeeklyRecords filters records whose effective date falls within the
// Monday-start week containing the reference date: the 7 days from the
// Monday on or before the reference.
func WeeklyRecords(records []*models.JobRecord, reference time.Time) []*models.JobRecord {
	start := WeekStart(reference)
	end := start.AddDate(0, 0, 7)

	var result []*models.JobRecord
	for _, r := range records {
		d := r.EffectiveDate()
		if !d.Before(start) && d.Before(end) {
			result = append(result, r)
		}
	}
	return result
}

// WeekStart returns midnight on the Monday on or before the given time,
// in the time's location.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	// time.Weekday is Sunday=0; shift so Monday=0
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// TotalAWs sums the AW values of the given records.
func TotalAWs(records []*models.JobRecord) int {
	total := 0
	for _, r := range records {
		total += r.AWValue
	}
	return total
}

// SoldHours converts an AW total to hours. One AW is 5 minutes, so
// SoldHours(12) == 1.0.
func SoldHours(totalAWs int) float64 {
	return float64(totalAWs*models.MinutesPerAW) / 60
}

// AvailableHoursToDate sums expected working hours for the given month, from
// the 1st up to and including today (or the whole month when it lies in the
// past). A month entirely in the future yields 0.
func AvailableHoursToDate(schedule models.WorkSchedule, month time.Month, year int, today time.Time) float64 {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, today.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	// Day after today, so today itself counts as available time
	cutoff := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location()).AddDate(0, 0, 1)
	if monthEnd.Before(cutoff) {
		cutoff = monthEnd
	}

	return scheduledHours(schedule, monthStart, cutoff)
}

// AvailableHoursInRange sums expected working hours in [from, to), capped at
// the end of today. Used for day and week summaries.
func AvailableHoursInRange(schedule models.WorkSchedule, from, to, today time.Time) float64 {
	cutoff := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location()).AddDate(0, 0, 1)
	if to.Before(cutoff) {
		cutoff = to
	}
	return scheduledHours(schedule, from, cutoff)
}

// scheduledHours walks whole days in [from, to) and sums schedule hours for
// each working day.
func scheduledHours(schedule models.WorkSchedule, from, to time.Time) float64 {
	total := 0.0
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		if schedule.WorksOn(d.Weekday()) {
			total += schedule.HoursPerDay
		}
	}
	return total
}

// Efficiency returns sold hours over available hours as a rounded integer
// percentage. Returns 0 when availableHours is 0 so the result is always a
// defined number, never NaN or Inf.
func Efficiency(totalAWs int, availableHours float64) int {
	if availableHours <= 0 {
		return 0
	}
	return int(math.Round(SoldHours(totalAWs) / availableHours * 100))
}

// EfficiencyStatus maps an efficiency percentage to its display band.
func EfficiencyStatus(efficiency int) string {
	switch {
	case efficiency < EfficiencyTargetMin:
		return StatusBelowTarget
	case efficiency <= EfficiencyTargetMax:
		return StatusOnTarget
	default:
		return StatusExceeding
	}
}

// EfficiencyColor maps an efficiency percentage to its display color.
func EfficiencyColor(efficiency int) string {
	switch {
	case efficiency < EfficiencyTargetMin:
		return "red"
	case efficiency <= EfficiencyTargetMax:
		return "green"
	default:
		return "gold"
	}
}

// FormatTime renders minutes as "Xh Ym". Hours are not capped at 24, so
// 1500 minutes renders as "25h 0m"; 0 renders as "0h 0m".
func FormatTime(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
