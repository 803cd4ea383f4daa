package models

import (
	"time"
)

// WorkSchedule describes the technician's expected working pattern, used to
// compute available hours for efficiency calculations.
type WorkSchedule struct {
	Weekdays    []time.Weekday `json:"weekdays"`      // Days of the week worked
	HoursPerDay float64        `json:"hours_per_day"` // Expected working hours on each working day
	UpdatedAt   time.Time      `json:"updated_at,omitempty"`
}

// DefaultWorkSchedule returns the standard Monday-Friday, 8 hours/day pattern.
func DefaultWorkSchedule() WorkSchedule {
	return WorkSchedule{
		Weekdays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
		HoursPerDay: 8,
	}
}

// WorksOn reports whether the schedule includes the given weekday.
func (s WorkSchedule) WorksOn(day time.Weekday) bool {
	for _, d := range s.Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// PINCredential stores the hashed PIN guarding mutating operations.
type PINCredential struct {
	Hash      []byte    `json:"hash"`
	UpdatedAt time.Time `json:"updated_at"`
}
