// Package report generates monthly efficiency reports as PDF documents.
package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/torque/internal/interfaces"
	"github.com/ternarybob/torque/internal/models"
	"github.com/ternarybob/torque/internal/services/stats"
)

// Service renders monthly report PDFs from stored job records.
type Service struct {
	jobStorage      interfaces.JobStorage
	settingsStorage interfaces.SettingsStorage
	workshopName    string
	logger          arbor.ILogger
}

// NewService creates a new report service
func NewService(jobStorage interfaces.JobStorage, settingsStorage interfaces.SettingsStorage, workshopName string, logger arbor.ILogger) *Service {
	return &Service{
		jobStorage:      jobStorage,
		settingsStorage: settingsStorage,
		workshopName:    workshopName,
		logger:          logger,
	}
}

// Monthly renders the efficiency report for one calendar month: per-day AW
// totals, sold vs available hours, and the efficiency band.
func (s *Service) Monthly(ctx context.Context, month time.Month, year int, today time.Time) ([]byte, error) {
	records, err := s.jobStorage.ListJobs(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load job records: %w", err)
	}

	schedule, err := s.settingsStorage.GetWorkSchedule(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load work schedule: %w", err)
	}

	monthly := stats.RecordsByMonth(records, month, year)
	totalAWs := stats.TotalAWs(monthly)
	sold := stats.SoldHours(totalAWs)
	available := stats.AvailableHoursToDate(*schedule, month, year, today)
	efficiency := stats.Efficiency(totalAWs, available)

	// Per-day AW totals
	dayAWs := make(map[int]int)
	dayJobs := make(map[int]int)
	for _, r := range monthly {
		day := r.EffectiveDate().Day()
		dayAWs[day] += r.AWValue
		dayJobs[day]++
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()

	title := fmt.Sprintf("%s - Efficiency Report %s %d", s.workshopName, month.String(), year)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Jobs logged: %d", len(monthly)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Total AWs: %d (%s)", totalAWs, stats.FormatTime(totalAWs*models.MinutesPerAW)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Sold hours: %.2f", sold), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Available hours to date: %.2f", available), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Efficiency: %d%% (%s)", efficiency, stats.EfficiencyStatus(efficiency)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Daily breakdown table
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(25, 7, "Day", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 7, "Jobs", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 7, "AWs", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 7, "Time", "1", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := monthStart.AddDate(0, 1, -1).Day()
	for day := 1; day <= daysInMonth; day++ {
		if dayJobs[day] == 0 {
			continue
		}
		pdf.CellFormat(25, 6, fmt.Sprintf("%02d", day), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", dayJobs[day]), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", dayAWs[day]), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, stats.FormatTime(dayAWs[day]*models.MinutesPerAW), "1", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate report PDF: %w", err)
	}

	s.logger.Debug().
		Str("month", month.String()).
		Int("year", year).
		Int("pdf_size", buf.Len()).
		Msg("Monthly report generated")

	return buf.Bytes(), nil
}
