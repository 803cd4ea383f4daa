package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/torque/internal/services/auth"
)

// AuthHandler handles PIN gate HTTP requests
type AuthHandler struct {
	authService *auth.Service
	logger      arbor.ILogger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service, logger arbor.ILogger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// SetPINHandler handles POST /api/auth/pin to set or change the PIN
func (h *AuthHandler) SetPINHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req struct {
		CurrentPIN string `json:"current_pin"`
		NewPIN     string `json:"new_pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.authService.SetPIN(r.Context(), req.CurrentPIN, req.NewPIN); err != nil {
		if errors.Is(err, auth.ErrLocked) {
			WriteError(w, http.StatusTooManyRequests, err.Error())
			return
		}
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteSuccess(w, "PIN updated")
}

// VerifyPINHandler handles POST /api/auth/verify
func (h *AuthHandler) VerifyPINHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.authService.Verify(r.Context(), req.PIN); err != nil {
		if errors.Is(err, auth.ErrLocked) {
			WriteError(w, http.StatusTooManyRequests, err.Error())
			return
		}
		WriteError(w, http.StatusUnauthorized, "PIN verification failed")
		return
	}

	WriteSuccess(w, "PIN verified")
}
