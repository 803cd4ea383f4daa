package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/torque/internal/models"
)

func floatPtr(f float64) *float64 { return &f }

func TestNormalizeRow(t *testing.T) {
	t.Run("clean row scores full confidence", func(t *testing.T) {
		row := NormalizeRow(models.ImportRow{
			WIPNumber:  "12345",
			VehicleReg: "ab12cde",
			VHCStatus:  "green",
			AWs:        floatPtr(12),
		})

		assert.Empty(t, row.ValidationErrors)
		assert.Equal(t, "AB12CDE", row.VehicleRegistration)
		assert.Equal(t, models.VHCStatusGreen, row.VHCStatus)
		assert.Equal(t, 12, row.AWValue)
		assert.Equal(t, 60, row.TimeInMinutes)
		assert.Equal(t, 1.0, row.Confidence)
		assert.Equal(t, models.RowActionCreate, row.Action)
		assert.NotEmpty(t, row.ID)
	})

	t.Run("missing aws normalizes to zero", func(t *testing.T) {
		row := NormalizeRow(models.ImportRow{
			WIPNumber:  "12345",
			VehicleReg: "AB12CDE",
		})

		assert.Empty(t, row.ValidationErrors)
		assert.Equal(t, 0, row.AWValue)
		// Zero AW penalty only
		assert.InDelta(t, PenaltyZeroAW, row.Confidence, 1e-9)
	})

	t.Run("missing identity anchors force skip", func(t *testing.T) {
		row := NormalizeRow(models.ImportRow{AWs: floatPtr(5)})

		assert.Equal(t, models.RowActionSkip, row.Action)
		require.NotEmpty(t, row.ValidationErrors)
		// Validation error and weak registration penalties both apply
		assert.InDelta(t, PenaltyValidationErrors*PenaltyWeakRegistration, row.Confidence, 1e-9)
		assert.Equal(t, "low", ConfidenceBand(row.Confidence))
	})

	t.Run("wip with start time but no registration is skipped", func(t *testing.T) {
		row := NormalizeRow(models.ImportRow{
			WIPNumber:   "12345",
			JobDateTime: "2026-03-10T09:00:00",
			AWs:         floatPtr(5),
		})
		assert.Equal(t, models.RowActionSkip, row.Action)
	})

	t.Run("registration with start time needs no wip", func(t *testing.T) {
		row := NormalizeRow(models.ImportRow{
			VehicleReg:  "AB12CDE",
			JobDateTime: "2026-03-10",
			AWs:         floatPtr(5),
		})
		assert.Equal(t, models.RowActionCreate, row.Action)
		assert.Empty(t, row.ValidationErrors)
		require.NotNil(t, row.StartedAt)
	})

	t.Run("non 5-digit wip is flagged but kept", func(t *testing.T) {
		row := NormalizeRow(models.ImportRow{
			WIPNumber:  "1234",
			VehicleReg: "AB12CDE",
			AWs:        floatPtr(8),
		})
		assert.Equal(t, models.RowActionCreate, row.Action)
		assert.Len(t, row.ValidationErrors, 1)
		assert.InDelta(t, PenaltyValidationErrors, row.Confidence, 1e-9)
	})

	t.Run("out of range aws flagged and clamped", func(t *testing.T) {
		row := NormalizeRow(models.ImportRow{
			WIPNumber:  "12345",
			VehicleReg: "AB12CDE",
			AWs:        floatPtr(250),
		})
		assert.Equal(t, models.MaxAWValue, row.AWValue)
		assert.Len(t, row.ValidationErrors, 1)
	})

	t.Run("unparsable timestamp is a row error", func(t *testing.T) {
		row := NormalizeRow(models.ImportRow{
			WIPNumber:   "12345",
			VehicleReg:  "AB12CDE",
			AWs:         floatPtr(5),
			JobDateTime: "10/03/2026",
		})
		assert.Len(t, row.ValidationErrors, 1)
		assert.Nil(t, row.StartedAt)
	})

	t.Run("vhc round trip", func(t *testing.T) {
		tests := map[string]models.VHCStatus{
			"red":    models.VHCStatusRed,
			"GREEN":  models.VHCStatusGreen,
			"purple": models.VHCStatusNA,
			"":       models.VHCStatusNA,
		}
		for input, expected := range tests {
			row := NormalizeRow(models.ImportRow{
				WIPNumber: "12345", VehicleReg: "AB12CDE", VHCStatus: input, AWs: floatPtr(5),
			})
			assert.Equal(t, expected, row.VHCStatus, "input %q", input)
		}
	})
}

func TestScoreRowCompounds(t *testing.T) {
	row := &models.ParsedJobRow{VehicleRegistration: "AB12CDE"}
	row.SetAWValue(10)
	assert.Equal(t, 1.0, ScoreRow(row))

	// Each additional weakness strictly lowers the score
	row.SetAWValue(0)
	oneWeak := ScoreRow(row)
	assert.Less(t, oneWeak, 1.0)

	row.VehicleRegistration = "AB"
	twoWeak := ScoreRow(row)
	assert.Less(t, twoWeak, oneWeak)

	row.ValidationErrors = []string{"something"}
	threeWeak := ScoreRow(row)
	assert.Less(t, threeWeak, twoWeak)
	assert.InDelta(t, PenaltyValidationErrors*PenaltyWeakRegistration*PenaltyZeroAW, threeWeak, 1e-9)
}

func TestConfidenceBand(t *testing.T) {
	assert.Equal(t, "high", ConfidenceBand(1.0))
	assert.Equal(t, "high", ConfidenceBand(0.8))
	assert.Equal(t, "medium", ConfidenceBand(0.7))
	assert.Equal(t, "medium", ConfidenceBand(0.6))
	assert.Equal(t, "low", ConfidenceBand(0.59))
}

func TestApplyBatchEdit(t *testing.T) {
	makeRows := func() []models.ParsedJobRow {
		r1 := NormalizeRow(models.ImportRow{WIPNumber: "11111", VehicleReg: "AB12CDE", Description: "Brake Pads front", AWs: floatPtr(6)})
		r2 := NormalizeRow(models.ImportRow{WIPNumber: "22222", VehicleReg: "CD34EFG", Description: "brake pads rear", AWs: floatPtr(4)})
		return []models.ParsedJobRow{r1, r2}
	}

	t.Run("set_vhc only touches selected rows", func(t *testing.T) {
		rows := makeRows()
		err := ApplyBatchEdit(rows, []string{rows[0].ID}, BatchEdit{Action: BatchEditSetVHC, VHCStatus: "red"})
		require.NoError(t, err)
		assert.Equal(t, models.VHCStatusRed, rows[0].VHCStatus)
		assert.Equal(t, models.VHCStatusNA, rows[1].VHCStatus)
	})

	t.Run("replace_description is case-insensitive", func(t *testing.T) {
		rows := makeRows()
		err := ApplyBatchEdit(rows, []string{rows[0].ID, rows[1].ID},
			BatchEdit{Action: BatchEditReplaceDescription, Find: "brake pads", Replace: "discs"})
		require.NoError(t, err)
		assert.Equal(t, "discs front", rows[0].JobDescription)
		assert.Equal(t, "discs rear", rows[1].JobDescription)
	})

	t.Run("replace_description survives multi-byte text", func(t *testing.T) {
		// Case-lowering changes the byte length of these code points, so the
		// match offsets must come from the original string.
		rows := makeRows()
		rows[0].JobDescription = "İİİİbrake"
		rows[1].JobDescription = "ȺȺȺȺ check"

		err := ApplyBatchEdit(rows, []string{rows[0].ID},
			BatchEdit{Action: BatchEditReplaceDescription, Find: "brake", Replace: "discs"})
		require.NoError(t, err)
		assert.Equal(t, "İİİİdiscs", rows[0].JobDescription)

		err = ApplyBatchEdit(rows, []string{rows[1].ID},
			BatchEdit{Action: BatchEditReplaceDescription, Find: "check", Replace: "inspect"})
		require.NoError(t, err)
		assert.Equal(t, "ȺȺȺȺ inspect", rows[1].JobDescription)
	})

	t.Run("replace_description treats find as literal text", func(t *testing.T) {
		rows := makeRows()
		rows[0].JobDescription = "Brake pads (front)"
		err := ApplyBatchEdit(rows, []string{rows[0].ID},
			BatchEdit{Action: BatchEditReplaceDescription, Find: "pads (front)", Replace: "discs"})
		require.NoError(t, err)
		assert.Equal(t, "Brake discs", rows[0].JobDescription)
	})

	t.Run("clear_aw recomputes confidence", func(t *testing.T) {
		rows := makeRows()
		before := rows[0].Confidence
		err := ApplyBatchEdit(rows, []string{rows[0].ID}, BatchEdit{Action: BatchEditClearAW})
		require.NoError(t, err)
		assert.Equal(t, 0, rows[0].AWValue)
		assert.Equal(t, 0, rows[0].TimeInMinutes)
		assert.Less(t, rows[0].Confidence, before)
	})

	t.Run("unknown action errors", func(t *testing.T) {
		rows := makeRows()
		err := ApplyBatchEdit(rows, []string{rows[0].ID}, BatchEdit{Action: "explode"})
		assert.Error(t, err)
	})
}
