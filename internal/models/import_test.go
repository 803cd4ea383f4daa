package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTransitions(t *testing.T) {
	t.Run("happy path to complete", func(t *testing.T) {
		session := &ImportSession{State: SessionStateIdle}
		for _, next := range []ImportSessionState{
			SessionStateParsing,
			SessionStatePreviewReady,
			SessionStateValidating,
			SessionStateMerging,
			SessionStateComplete,
		} {
			require.NoError(t, session.TransitionTo(next))
		}
		assert.Equal(t, SessionStateComplete, session.State)
	})

	t.Run("validation failure loops back to preview", func(t *testing.T) {
		session := &ImportSession{State: SessionStateValidating}
		require.NoError(t, session.TransitionTo(SessionStateValidationFailed))
		require.NoError(t, session.TransitionTo(SessionStatePreviewReady))
		assert.Equal(t, SessionStatePreviewReady, session.State)
	})

	t.Run("merge failure returns to preview", func(t *testing.T) {
		session := &ImportSession{State: SessionStateMerging}
		require.NoError(t, session.TransitionTo(SessionStatePreviewReady))
	})

	t.Run("illegal transitions rejected", func(t *testing.T) {
		session := &ImportSession{State: SessionStateIdle}
		assert.Error(t, session.TransitionTo(SessionStateMerging))
		assert.Equal(t, SessionStateIdle, session.State, "state unchanged after rejected transition")

		session.State = SessionStateComplete
		assert.Error(t, session.TransitionTo(SessionStatePreviewReady))
	})
}

func TestParsedJobRowSetAWValue(t *testing.T) {
	row := &ParsedJobRow{}

	row.SetAWValue(12)
	assert.Equal(t, 12, row.AWValue)
	assert.Equal(t, 60, row.TimeInMinutes)

	// Out-of-range values clamp instead of erroring
	row.SetAWValue(150)
	assert.Equal(t, MaxAWValue, row.AWValue)
	assert.Equal(t, MaxAWValue*MinutesPerAW, row.TimeInMinutes)

	row.SetAWValue(-3)
	assert.Equal(t, 0, row.AWValue)
	assert.Equal(t, 0, row.TimeInMinutes)
}
