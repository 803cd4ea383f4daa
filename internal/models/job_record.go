package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// VHCStatus represents a vehicle health check outcome
type VHCStatus string

const (
	VHCStatusRed    VHCStatus = "Red"
	VHCStatusOrange VHCStatus = "Orange"
	VHCStatusGreen  VHCStatus = "Green"
	VHCStatusNA     VHCStatus = "N/A"
)

// SourceType identifies where a job record came from
type SourceType string

const (
	SourceTypeManual SourceType = "manual"
	SourceTypeJSON   SourceType = "json"
	SourceTypePDF    SourceType = "pdf"
)

const (
	// MinutesPerAW is the length of one AW labour unit. 1 AW = 5 minutes.
	MinutesPerAW = 5
	// MaxAWValue is the largest AW count a single record may carry.
	MaxAWValue = 100
)

// wipNumberPattern is the format required for manually entered WIP numbers.
var wipNumberPattern = regexp.MustCompile(`^\d{5}$`)

// ImportSource records the provenance of an imported job record
type ImportSource struct {
	Type       SourceType `json:"type"`
	ImportedAt time.Time  `json:"imported_at,omitempty"`
}

// JobRecord is the canonical entity describing one unit of work performed.
//
// Invariants:
//   - TimeInMinutes == AWValue * MinutesPerAW at all times; AWValue is only
//     mutated through SetAWValue which recomputes the derived field.
//   - 0 <= AWValue <= MaxAWValue.
//   - DateCreated is set once at creation and never overwritten.
type JobRecord struct {
	ID                  string        `json:"id"`
	WIPNumber           string        `json:"wip_number"`
	VehicleRegistration string        `json:"vehicle_registration"` // Canonicalized to uppercase on save
	AWValue             int           `json:"aw_value"`
	TimeInMinutes       int           `json:"time_in_minutes"` // Derived: AWValue * MinutesPerAW
	JobDescription      string        `json:"job_description,omitempty"`
	Notes               string        `json:"notes,omitempty"`
	VHCStatus           VHCStatus     `json:"vhc_status,omitempty"`
	DateCreated         time.Time     `json:"date_created"`
	DateModified        time.Time     `json:"date_modified,omitempty"`
	// StartedAt is when work actually began, distinct from DateCreated.
	// Populated for imported historical records.
	StartedAt *time.Time    `json:"started_at,omitempty"`
	Source    *ImportSource `json:"source,omitempty"`
}

// NewJobRecord creates a manually entered job record. The vehicle
// registration is canonicalized to uppercase and the AW/time invariant is
// established. DateCreated is stamped from now and is immutable thereafter.
func NewJobRecord(id, wipNumber, vehicleReg string, awValue int, now time.Time) (*JobRecord, error) {
	if id == "" {
		return nil, fmt.Errorf("job record ID is required")
	}
	if !wipNumberPattern.MatchString(wipNumber) {
		return nil, fmt.Errorf("WIP number %q must be exactly 5 digits", wipNumber)
	}

	record := &JobRecord{
		ID:                  id,
		WIPNumber:           wipNumber,
		VehicleRegistration: strings.ToUpper(strings.TrimSpace(vehicleReg)),
		VHCStatus:           VHCStatusNA,
		DateCreated:         now,
		Source:              &ImportSource{Type: SourceTypeManual},
	}
	if err := record.SetAWValue(awValue); err != nil {
		return nil, err
	}
	return record, nil
}

// SetAWValue is the single mutation path for AWValue. It enforces the valid
// range and recomputes TimeInMinutes so the derived field never drifts.
func (r *JobRecord) SetAWValue(awValue int) error {
	if awValue < 0 || awValue > MaxAWValue {
		return fmt.Errorf("AW value %d out of range 0-%d", awValue, MaxAWValue)
	}
	r.AWValue = awValue
	r.TimeInMinutes = awValue * MinutesPerAW
	return nil
}

// Touch stamps DateModified. DateCreated is left untouched.
func (r *JobRecord) Touch(now time.Time) {
	r.DateModified = now
}

// EffectiveDate is the timestamp used for time-bucketed statistics:
// StartedAt when present (imported historical records), else DateCreated.
func (r *JobRecord) EffectiveDate() time.Time {
	if r.StartedAt != nil && !r.StartedAt.IsZero() {
		return *r.StartedAt
	}
	return r.DateCreated
}

// ValidWIPNumber reports whether the WIP number matches the 5-digit format
// required for manual entries.
func ValidWIPNumber(wip string) bool {
	return wipNumberPattern.MatchString(wip)
}

// NormalizeVHCStatus maps a loosely-typed status string onto the VHC enum.
// Matching is case-insensitive; anything unrecognized (including empty and
// the JSON import's "NONE") normalizes to N/A.
func NormalizeVHCStatus(s string) VHCStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red":
		return VHCStatusRed
	case "orange":
		return VHCStatusOrange
	case "green":
		return VHCStatusGreen
	default:
		return VHCStatusNA
	}
}
