package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/torque/internal/app"
	"github.com/ternarybob/torque/internal/common"
	"github.com/ternarybob/torque/internal/interfaces"
	"github.com/ternarybob/torque/internal/models"
	"github.com/ternarybob/torque/internal/services/auth"
)

type memSettingsStorage struct {
	cred *models.PINCredential
}

func (m *memSettingsStorage) GetWorkSchedule(context.Context) (*models.WorkSchedule, error) {
	def := models.DefaultWorkSchedule()
	return &def, nil
}

func (m *memSettingsStorage) SaveWorkSchedule(context.Context, *models.WorkSchedule) error {
	return nil
}

func (m *memSettingsStorage) GetPINCredential(context.Context) (*models.PINCredential, error) {
	if m.cred == nil {
		return nil, interfaces.ErrNotFound
	}
	return m.cred, nil
}

func (m *memSettingsStorage) SavePINCredential(_ context.Context, cred *models.PINCredential) error {
	m.cred = cred
	return nil
}

func TestPINGateMiddleware(t *testing.T) {
	ctx := context.Background()
	authSvc, err := auth.NewService(&memSettingsStorage{},
		&common.AuthConfig{MaxFailures: 2, LockoutFor: "5m"}, arbor.NewLogger())
	require.NoError(t, err)
	require.NoError(t, authSvc.SetPIN(ctx, "", "1234"))

	srv := &Server{app: &app.App{Logger: arbor.NewLogger(), AuthService: authSvc}}
	gate := srv.pinGateMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(method, pin string) int {
		req := httptest.NewRequest(method, "/api/jobs", nil)
		if pin != "" {
			req.Header.Set("X-Pin", pin)
		}
		rec := httptest.NewRecorder()
		gate.ServeHTTP(rec, req)
		return rec.Code
	}

	t.Run("reads pass without a pin", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do("GET", ""))
	})

	t.Run("mutations without a header are rejected", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do("POST", ""))
	})

	t.Run("headerless requests never trip the lockout", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			assert.Equal(t, http.StatusUnauthorized, do("POST", ""))
		}
		// The correct PIN still works; absent headers did not count as failures
		assert.Equal(t, http.StatusOK, do("POST", "1234"))
	})

	t.Run("wrong pins count towards the lockout", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do("POST", "9999"))
		assert.Equal(t, http.StatusUnauthorized, do("POST", "9999"))
		// Locked out: even the correct PIN is rejected now
		assert.Equal(t, http.StatusUnauthorized, do("POST", "1234"))
	})
}
