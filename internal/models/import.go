package models

import (
	"fmt"
	"time"
)

// RowAction is the reconciliation disposition for a parsed import row
type RowAction string

const (
	RowActionCreate RowAction = "create"
	RowActionUpdate RowAction = "update"
	RowActionSkip   RowAction = "skip"
)

// ImportRow is the loosely-typed row shape consumed by the normalizer.
// JSON imports decode directly into this shape; PDF-derived rows are parsed
// into it by the PDF row parser.
type ImportRow struct {
	WIPNumber   string   `json:"wipNumber"`
	VehicleReg  string   `json:"vehicleReg"`
	VHCStatus   string   `json:"vhcStatus"`
	Description string   `json:"description,omitempty"`
	AWs         *float64 `json:"aws,omitempty"`
	JobDateTime string   `json:"jobDateTime,omitempty"`
}

// ImportDocument is the JSON import payload: a document with a jobs array.
type ImportDocument struct {
	Jobs []ImportRow `json:"jobs" validate:"required"`
}

// ParsedJobRow is the transient, editable intermediate representation of an
// import candidate prior to becoming a persisted JobRecord. Never persisted
// as a job record itself.
type ParsedJobRow struct {
	ID                  string     `json:"id"` // Target JobRecord ID (fresh for creates)
	WIPNumber           string     `json:"wip_number"`
	VehicleRegistration string     `json:"vehicle_registration"`
	AWValue             int        `json:"aw_value"`
	TimeInMinutes       int        `json:"time_in_minutes"`
	JobDescription      string     `json:"job_description,omitempty"`
	VHCStatus           VHCStatus  `json:"vhc_status"`
	StartedAt           *time.Time `json:"started_at,omitempty"`
	ValidationErrors    []string   `json:"validation_errors,omitempty"`
	Confidence          float64    `json:"confidence"`
	Action              RowAction  `json:"action"`
}

// SetAWValue mirrors JobRecord.SetAWValue for the editable row: the derived
// TimeInMinutes is recomputed immediately so it never drifts from AWValue.
// Unlike the persisted record, out-of-range values are clamped rather than
// rejected; the caller records a validation error instead.
func (r *ParsedJobRow) SetAWValue(awValue int) {
	if awValue < 0 {
		awValue = 0
	}
	if awValue > MaxAWValue {
		awValue = MaxAWValue
	}
	r.AWValue = awValue
	r.TimeInMinutes = awValue * MinutesPerAW
}

// ImportSessionState tracks one import session through its lifecycle
type ImportSessionState string

const (
	SessionStateIdle             ImportSessionState = "idle"
	SessionStateParsing          ImportSessionState = "parsing"
	SessionStatePreviewReady     ImportSessionState = "preview_ready"
	SessionStateValidating       ImportSessionState = "validating"
	SessionStateValidationFailed ImportSessionState = "validation_failed"
	SessionStateMerging          ImportSessionState = "merging"
	SessionStateComplete         ImportSessionState = "complete"
)

// sessionTransitions is the allowed state machine:
// idle -> parsing -> preview_ready -> validating ->
// {validation_failed -> preview_ready | merging -> complete}.
// A storage failure during merging surfaces the error and returns the
// session to preview_ready; no partial merge state is retained.
var sessionTransitions = map[ImportSessionState][]ImportSessionState{
	SessionStateIdle:             {SessionStateParsing},
	SessionStateParsing:          {SessionStatePreviewReady},
	SessionStatePreviewReady:     {SessionStateValidating},
	SessionStateValidating:       {SessionStateValidationFailed, SessionStateMerging},
	SessionStateValidationFailed: {SessionStatePreviewReady},
	SessionStateMerging:          {SessionStateComplete, SessionStatePreviewReady},
	SessionStateComplete:         {},
}

// ImportSession holds the full state of one import workflow: the parsed rows
// under review, accumulated errors, and the terminal result.
type ImportSession struct {
	ID         string             `json:"id"`
	SourceType SourceType         `json:"source_type"` // json or pdf
	State      ImportSessionState `json:"state"`
	Rows       []ParsedJobRow     `json:"rows"`
	Errors     []string           `json:"errors,omitempty"` // Batch validation report
	Result     *ImportResult      `json:"result,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// TransitionTo moves the session to the next state, enforcing the allowed
// transition table. Returns an error for illegal transitions.
func (s *ImportSession) TransitionTo(next ImportSessionState) error {
	for _, allowed := range sessionTransitions[s.State] {
		if allowed == next {
			s.State = next
			return nil
		}
	}
	return fmt.Errorf("invalid import session transition %s -> %s", s.State, next)
}

// ImportResult is the summary surfaced to callers after a merge.
type ImportResult struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Imported int      `json:"imported"` // Created + Updated
	Created  int      `json:"created"`
	Updated  int      `json:"updated"`
	Skipped  int      `json:"skipped"`
	Errors   int      `json:"errors"`
	Details  []string `json:"details,omitempty"`
}
