package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/torque/internal/services/report"
)

// ReportHandler handles report generation HTTP requests
type ReportHandler struct {
	reportService *report.Service
	logger        arbor.ILogger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *report.Service, logger arbor.ILogger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// MonthlyHandler handles GET /api/report/monthly?month=M&year=YYYY and
// responds with a PDF download. Defaults to the current month.
func (h *ReportHandler) MonthlyHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	now := time.Now().UTC()
	month := now.Month()
	year := now.Year()

	query := r.URL.Query()
	if monthStr := query.Get("month"); monthStr != "" {
		m, err := strconv.Atoi(monthStr)
		if err != nil || m < 1 || m > 12 {
			WriteError(w, http.StatusBadRequest, "Invalid month parameter")
			return
		}
		month = time.Month(m)
	}
	if yearStr := query.Get("year"); yearStr != "" {
		y, err := strconv.Atoi(yearStr)
		if err != nil || y < 2000 || y > 2100 {
			WriteError(w, http.StatusBadRequest, "Invalid year parameter")
			return
		}
		year = y
	}

	content, err := h.reportService.Monthly(r.Context(), month, year, now)
	if err != nil {
		h.logger.Error().Err(err).Str("month", month.String()).Int("year", year).Msg("Failed to generate monthly report")
		WriteError(w, http.StatusInternalServerError, "Failed to generate monthly report")
		return
	}

	filename := fmt.Sprintf("efficiency-report-%04d-%02d.pdf", year, int(month))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}
