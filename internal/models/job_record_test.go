package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobRecord(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("creates record with derived time", func(t *testing.T) {
		record, err := NewJobRecord("job_1", "12345", "ab12 cde", 12, now)
		require.NoError(t, err)

		assert.Equal(t, "12345", record.WIPNumber)
		assert.Equal(t, "AB12 CDE", record.VehicleRegistration)
		assert.Equal(t, 12, record.AWValue)
		assert.Equal(t, 60, record.TimeInMinutes)
		assert.Equal(t, VHCStatusNA, record.VHCStatus)
		assert.Equal(t, now, record.DateCreated)
		require.NotNil(t, record.Source)
		assert.Equal(t, SourceTypeManual, record.Source.Type)
	})

	t.Run("rejects non 5-digit WIP numbers", func(t *testing.T) {
		for _, wip := range []string{"", "1234", "123456", "12a45", "12 45"} {
			_, err := NewJobRecord("job_1", wip, "AB12CDE", 5, now)
			assert.Error(t, err, "WIP %q should be rejected", wip)
		}
	})

	t.Run("rejects out of range AW values", func(t *testing.T) {
		_, err := NewJobRecord("job_1", "12345", "AB12CDE", -1, now)
		assert.Error(t, err)

		_, err = NewJobRecord("job_1", "12345", "AB12CDE", 101, now)
		assert.Error(t, err)
	})
}

func TestSetAWValue(t *testing.T) {
	now := time.Now().UTC()
	record, err := NewJobRecord("job_1", "12345", "AB12CDE", 0, now)
	require.NoError(t, err)

	// Boundary values keep the invariant
	require.NoError(t, record.SetAWValue(100))
	assert.Equal(t, 500, record.TimeInMinutes)

	require.NoError(t, record.SetAWValue(0))
	assert.Equal(t, 0, record.TimeInMinutes)

	// Rejected values leave the record unchanged
	require.NoError(t, record.SetAWValue(7))
	assert.Error(t, record.SetAWValue(101))
	assert.Equal(t, 7, record.AWValue)
	assert.Equal(t, 35, record.TimeInMinutes)
}

func TestEffectiveDate(t *testing.T) {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	started := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

	record := &JobRecord{DateCreated: created}
	assert.Equal(t, created, record.EffectiveDate())

	record.StartedAt = &started
	assert.Equal(t, started, record.EffectiveDate())
}

func TestNormalizeVHCStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected VHCStatus
	}{
		{"red", VHCStatusRed},
		{"RED", VHCStatusRed},
		{"Orange", VHCStatusOrange},
		{" green ", VHCStatusGreen},
		{"NONE", VHCStatusNA},
		{"purple", VHCStatusNA},
		{"", VHCStatusNA},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeVHCStatus(tt.input), "input %q", tt.input)
	}
}

func TestValidWIPNumber(t *testing.T) {
	assert.True(t, ValidWIPNumber("00000"))
	assert.True(t, ValidWIPNumber("98765"))
	assert.False(t, ValidWIPNumber("9876"))
	assert.False(t, ValidWIPNumber("987654"))
	assert.False(t, ValidWIPNumber("98a65"))
}
