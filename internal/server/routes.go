package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Job records
	mux.HandleFunc("/api/jobs", s.handleJobsRoute)
	mux.HandleFunc("/api/jobs/", s.app.JobHandler.JobByIDHandler)

	// API routes - Statistics
	mux.HandleFunc("/api/stats/summary", s.app.StatsHandler.SummaryHandler)

	// API routes - Import sessions
	mux.HandleFunc("/api/import/json", s.app.ImportHandler.ImportJSONHandler)
	mux.HandleFunc("/api/import/pdf", s.app.ImportHandler.ImportPDFHandler)
	mux.HandleFunc("/api/import/", s.app.ImportHandler.SessionRoutesHandler)

	// API routes - PIN gate
	mux.HandleFunc("/api/auth/pin", s.app.AuthHandler.SetPINHandler)
	mux.HandleFunc("/api/auth/verify", s.app.AuthHandler.VerifyPINHandler)

	// API routes - Settings
	mux.HandleFunc("/api/settings/schedule", s.app.SettingsHandler.ScheduleHandler)

	// API routes - Reports
	mux.HandleFunc("/api/report/monthly", s.app.ReportHandler.MonthlyHandler)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// Catch-all for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleJobsRoute dispatches /api/jobs by method: GET lists, POST creates
func (s *Server) handleJobsRoute(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		s.app.JobHandler.ListJobsHandler(w, r)
	case "POST":
		s.app.JobHandler.CreateJobHandler(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
