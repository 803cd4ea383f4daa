package importer

import (
	"fmt"
	"time"

	"github.com/ternarybob/torque/internal/models"
)

// ValidateBatch runs cross-row validation over all non-skip rows and
// aggregates every row-level and batch-level error into one ordered report.
// A non-empty report blocks the merge; no writes happen from validation.
func ValidateBatch(rows []models.ParsedJobRow) []string {
	var report []string

	// Row-level errors from rows still headed for the merge
	for i, row := range rows {
		if row.Action == models.RowActionSkip {
			continue
		}
		for _, msg := range row.ValidationErrors {
			report = append(report, fmt.Sprintf("row %d (WIP %s): %s", i+1, displayWIP(row.WIPNumber), msg))
		}
	}

	// Duplicate WIP numbers within the batch, skip rows excluded.
	// One error per WIP number naming its occurrence count.
	counts := make(map[string]int)
	var order []string
	for _, row := range rows {
		if row.Action == models.RowActionSkip || row.WIPNumber == "" {
			continue
		}
		if counts[row.WIPNumber] == 0 {
			order = append(order, row.WIPNumber)
		}
		counts[row.WIPNumber]++
	}
	for _, wip := range order {
		if counts[wip] > 1 {
			report = append(report, fmt.Sprintf("duplicate WIP number %s appears %d times in batch", wip, counts[wip]))
		}
	}

	return report
}

func displayWIP(wip string) string {
	if wip == "" {
		return "-"
	}
	return wip
}

// MergeRows converts accepted rows into job records and merges them with a
// snapshot of the existing collection. Records whose ID already exists
// replace in place (updated); unknown IDs append (created); skip rows are
// excluded from both counts. The returned slice is a new collection for the
// caller to persist in a single atomic write.
//
// DateCreated handling: updates keep the existing record's creation
// timestamp; creates stamp it from the row's start time when present, else
// the merge time.
func MergeRows(existing []*models.JobRecord, rows []models.ParsedJobRow, sourceType models.SourceType, now time.Time) ([]*models.JobRecord, *models.ImportResult) {
	merged := make([]*models.JobRecord, len(existing))
	index := make(map[string]int, len(existing))
	for i, record := range existing {
		merged[i] = record
		index[record.ID] = i
	}

	result := &models.ImportResult{Success: true}

	for _, row := range rows {
		if row.Action == models.RowActionSkip {
			result.Skipped++
			continue
		}

		record := rowToRecord(row, sourceType, now)

		if pos, ok := index[record.ID]; ok {
			record.DateCreated = merged[pos].DateCreated
			merged[pos] = record
			result.Updated++
		} else {
			index[record.ID] = len(merged)
			merged = append(merged, record)
			result.Created++
		}
	}

	result.Imported = result.Created + result.Updated
	result.Message = fmt.Sprintf("Imported %d jobs (%d created, %d updated, %d skipped)",
		result.Imported, result.Created, result.Updated, result.Skipped)

	return merged, result
}

// rowToRecord builds the job record for an accepted row, stamping source
// provenance and establishing the AW/time invariant.
func rowToRecord(row models.ParsedJobRow, sourceType models.SourceType, now time.Time) *models.JobRecord {
	record := &models.JobRecord{
		ID:                  row.ID,
		WIPNumber:           row.WIPNumber,
		VehicleRegistration: row.VehicleRegistration,
		JobDescription:      row.JobDescription,
		VHCStatus:           row.VHCStatus,
		StartedAt:           row.StartedAt,
		DateCreated:         now,
		DateModified:        now,
		Source: &models.ImportSource{
			Type:       sourceType,
			ImportedAt: now,
		},
	}
	if row.StartedAt != nil {
		record.DateCreated = *row.StartedAt
	}
	record.AWValue = row.AWValue
	record.TimeInMinutes = row.AWValue * models.MinutesPerAW
	return record
}
