// Package importer converts loosely-structured external rows (JSON documents
// or parsed PDF job sheets) into validated, confidence-scored candidate job
// records and reconciles them into the persisted collection.
package importer

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/ternarybob/torque/internal/common"
	"github.com/ternarybob/torque/internal/models"
)

// Confidence penalty factors. Penalties compound multiplicatively, so a row
// failing two checks always scores lower than one failing either alone.
const (
	PenaltyValidationErrors = 0.7 // Any validation error present
	PenaltyWeakRegistration = 0.6 // Vehicle registration missing or shorter than 4 chars
	PenaltyZeroAW           = 0.5 // AW value of exactly 0
)

// Confidence display bands, exposed as named constants for testability.
const (
	ConfidenceHighMin   = 0.8
	ConfidenceMediumMin = 0.6
)

// ConfidenceBand maps a confidence score to its display band.
func ConfidenceBand(confidence float64) string {
	switch {
	case confidence >= ConfidenceHighMin:
		return "high"
	case confidence >= ConfidenceMediumMin:
		return "medium"
	default:
		return "low"
	}
}

// minRegistrationLength below which the registration counts as a weakness.
const minRegistrationLength = 4

// timestampLayouts accepted for the jobDateTime field, tried in order.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// NormalizeRow converts one loosely-typed row into a ParsedJobRow, assigning
// validation errors and a confidence score. The persisted collection is
// never consulted; rows default to the create action with a fresh record ID.
func NormalizeRow(raw models.ImportRow) models.ParsedJobRow {
	row := models.ParsedJobRow{
		ID:                  common.NewJobID(),
		WIPNumber:           strings.TrimSpace(raw.WIPNumber),
		VehicleRegistration: strings.ToUpper(strings.TrimSpace(raw.VehicleReg)),
		JobDescription:      strings.TrimSpace(raw.Description),
		VHCStatus:           models.NormalizeVHCStatus(raw.VHCStatus),
		Action:              models.RowActionCreate,
	}

	// Start timestamp: optional, but a parse failure is a row error
	if ts := strings.TrimSpace(raw.JobDateTime); ts != "" {
		parsed, err := parseTimestamp(ts)
		if err != nil {
			row.ValidationErrors = append(row.ValidationErrors,
				fmt.Sprintf("invalid jobDateTime %q", ts))
		} else {
			row.StartedAt = &parsed
		}
	}

	// Identity anchors: the row needs either WIP+registration or
	// registration+start timestamp. Severe failures force a skip.
	hasWIP := row.WIPNumber != ""
	hasReg := row.VehicleRegistration != ""
	hasStart := row.StartedAt != nil
	if (!hasWIP && !hasReg) || (!hasReg && !hasStart) {
		row.ValidationErrors = append(row.ValidationErrors,
			"missing identity anchors: needs WIP number and registration, or registration and start time")
		row.Action = models.RowActionSkip
	}

	// Imported WIP numbers may relax the 5-digit rule but must flag it
	if hasWIP && !models.ValidWIPNumber(row.WIPNumber) {
		row.ValidationErrors = append(row.ValidationErrors,
			fmt.Sprintf("WIP number %q is not 5 digits", row.WIPNumber))
	}

	// Non-numeric or missing AW values normalize to 0
	aw := 0
	if raw.AWs != nil {
		aw = int(math.Round(*raw.AWs))
		if aw < 0 || aw > models.MaxAWValue {
			row.ValidationErrors = append(row.ValidationErrors,
				fmt.Sprintf("AW value %d out of range 0-%d", aw, models.MaxAWValue))
		}
	}
	row.SetAWValue(aw)

	row.Confidence = ScoreRow(&row)
	return row
}

// ScoreRow computes the multiplicative confidence score for a row. It is a
// pure function of the row's current state and is re-evaluated after every
// edit so interactive correction immediately updates displayed confidence.
// The factors are order-independent fixed multipliers; do not reinterpret
// them as a weighted sum.
func ScoreRow(row *models.ParsedJobRow) float64 {
	confidence := 1.0
	if len(row.ValidationErrors) > 0 {
		confidence *= PenaltyValidationErrors
	}
	if len(row.VehicleRegistration) < minRegistrationLength {
		confidence *= PenaltyWeakRegistration
	}
	if row.AWValue == 0 {
		confidence *= PenaltyZeroAW
	}
	return confidence
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format %q", s)
}

// BatchEditAction identifies one bulk edit applied to selected rows
type BatchEditAction string

const (
	BatchEditSetVHC             BatchEditAction = "set_vhc"
	BatchEditReplaceDescription BatchEditAction = "replace_description"
	BatchEditClearAW            BatchEditAction = "clear_aw"
)

// BatchEdit describes one edit action over a selection of rows.
type BatchEdit struct {
	Action    BatchEditAction `json:"action"`
	VHCStatus string          `json:"vhc_status,omitempty"` // set_vhc
	Find      string          `json:"find,omitempty"`       // replace_description
	Replace   string          `json:"replace,omitempty"`    // replace_description
}

// ApplyBatchEdit applies the edit to every selected row (by row ID) and
// recomputes each edited row's confidence. Unselected rows are untouched.
func ApplyBatchEdit(rows []models.ParsedJobRow, selected []string, edit BatchEdit) error {
	selectedSet := make(map[string]bool, len(selected))
	for _, id := range selected {
		selectedSet[id] = true
	}

	for i := range rows {
		if !selectedSet[rows[i].ID] {
			continue
		}
		switch edit.Action {
		case BatchEditSetVHC:
			rows[i].VHCStatus = models.NormalizeVHCStatus(edit.VHCStatus)
		case BatchEditReplaceDescription:
			rows[i].JobDescription = replaceAllFold(rows[i].JobDescription, edit.Find, edit.Replace)
		case BatchEditClearAW:
			rows[i].SetAWValue(0)
		default:
			return fmt.Errorf("unknown batch edit action: %s", edit.Action)
		}
		rows[i].Confidence = ScoreRow(&rows[i])
	}
	return nil
}

// replaceAllFold replaces all case-insensitive occurrences of find in s
// with replace. An empty find leaves s unchanged. Matching runs against the
// original string rather than a case-lowered copy: lowering can change byte
// lengths for some Unicode code points, which would misalign the offsets.
func replaceAllFold(s, find, replace string) string {
	if find == "" {
		return s
	}
	pattern := regexp.MustCompile("(?i)" + regexp.QuoteMeta(find))
	return pattern.ReplaceAllLiteralString(s, replace)
}
