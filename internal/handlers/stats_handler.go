package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/torque/internal/services/stats"
)

// StatsHandler handles statistics HTTP requests
type StatsHandler struct {
	statsService *stats.Service
	logger       arbor.ILogger
}

// NewStatsHandler creates a new statistics handler
func NewStatsHandler(statsService *stats.Service, logger arbor.ILogger) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		logger:       logger,
	}
}

// SummaryHandler handles GET /api/stats/summary?period=day|week|month&date=YYYY-MM-DD
func (h *StatsHandler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	period := stats.Period(r.URL.Query().Get("period"))
	if period == "" {
		period = stats.PeriodMonth
	}
	switch period {
	case stats.PeriodDay, stats.PeriodWeek, stats.PeriodMonth:
	default:
		WriteError(w, http.StatusBadRequest, "Invalid period, expected day, week or month")
		return
	}

	now := time.Now().UTC()
	reference := now
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		reference = parsed
	}

	summary, err := h.statsService.Summarize(r.Context(), period, reference, now)
	if err != nil {
		h.logger.Error().Err(err).Str("period", string(period)).Msg("Failed to compute statistics summary")
		WriteError(w, http.StatusInternalServerError, "Failed to compute statistics summary")
		return
	}

	WriteJSON(w, http.StatusOK, summary)
}
