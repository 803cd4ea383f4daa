package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/torque/internal/interfaces"
	"github.com/ternarybob/torque/internal/models"
)

func testSession(id string, state models.ImportSessionState) *models.ImportSession {
	now := time.Now().UTC()
	return &models.ImportSession{
		ID:         id,
		SourceType: models.SourceTypeJSON,
		State:      state,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestSessionStorageCRUD(t *testing.T) {
	ctx := context.Background()
	storage := newTestManager(t).ImportSessionStorage()

	session := testSession("imp_1", models.SessionStatePreviewReady)
	session.Rows = []models.ParsedJobRow{{ID: "job_1", WIPNumber: "12345", Action: models.RowActionCreate}}
	require.NoError(t, storage.SaveSession(ctx, session))

	loaded, err := storage.GetSession(ctx, "imp_1")
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatePreviewReady, loaded.State)
	require.Len(t, loaded.Rows, 1)
	assert.Equal(t, "12345", loaded.Rows[0].WIPNumber)

	require.NoError(t, storage.DeleteSession(ctx, "imp_1"))
	_, err = storage.GetSession(ctx, "imp_1")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestCountOpenSessions(t *testing.T) {
	ctx := context.Background()
	storage := newTestManager(t).ImportSessionStorage()

	require.NoError(t, storage.SaveSession(ctx, testSession("imp_1", models.SessionStatePreviewReady)))
	require.NoError(t, storage.SaveSession(ctx, testSession("imp_2", models.SessionStateParsing)))
	require.NoError(t, storage.SaveSession(ctx, testSession("imp_3", models.SessionStateComplete)))

	open, err := storage.CountOpenSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, open, "complete sessions do not count as open")
}
