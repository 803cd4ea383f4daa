package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/torque/internal/interfaces"
	"github.com/ternarybob/torque/internal/models"
)

// SettingsHandler handles work schedule HTTP requests
type SettingsHandler struct {
	settingsStorage interfaces.SettingsStorage
	logger          arbor.ILogger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsStorage interfaces.SettingsStorage, logger arbor.ILogger) *SettingsHandler {
	return &SettingsHandler{
		settingsStorage: settingsStorage,
		logger:          logger,
	}
}

// ScheduleHandler routes GET/PUT /api/settings/schedule
func (h *SettingsHandler) ScheduleHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		h.getSchedule(w, r)
	case "PUT":
		h.updateSchedule(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SettingsHandler) getSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.settingsStorage.GetWorkSchedule(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to load work schedule")
		WriteError(w, http.StatusInternalServerError, "Failed to load work schedule")
		return
	}
	WriteJSON(w, http.StatusOK, schedule)
}

func (h *SettingsHandler) updateSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Weekdays    []time.Weekday `json:"weekdays"`
		HoursPerDay float64        `json:"hours_per_day"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.Weekdays) == 0 {
		WriteError(w, http.StatusBadRequest, "At least one working weekday is required")
		return
	}
	if req.HoursPerDay <= 0 || req.HoursPerDay > 24 {
		WriteError(w, http.StatusBadRequest, "Hours per day must be between 0 and 24")
		return
	}
	for _, d := range req.Weekdays {
		if d < time.Sunday || d > time.Saturday {
			WriteError(w, http.StatusBadRequest, "Invalid weekday value")
			return
		}
	}

	schedule := &models.WorkSchedule{
		Weekdays:    req.Weekdays,
		HoursPerDay: req.HoursPerDay,
	}
	if err := h.settingsStorage.SaveWorkSchedule(r.Context(), schedule); err != nil {
		h.logger.Error().Err(err).Msg("Failed to save work schedule")
		WriteError(w, http.StatusInternalServerError, "Failed to save work schedule")
		return
	}

	h.logger.Info().Float64("hours_per_day", schedule.HoursPerDay).Msg("Work schedule updated")
	WriteJSON(w, http.StatusOK, schedule)
}
