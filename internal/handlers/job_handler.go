package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/torque/internal/common"
	"github.com/ternarybob/torque/internal/interfaces"
	"github.com/ternarybob/torque/internal/models"
)

// JobHandler handles job record HTTP requests
type JobHandler struct {
	jobStorage interfaces.JobStorage
	validate   *validator.Validate
	logger     arbor.ILogger
}

// NewJobHandler creates a new job handler
func NewJobHandler(jobStorage interfaces.JobStorage, logger arbor.ILogger) *JobHandler {
	return &JobHandler{
		jobStorage: jobStorage,
		validate:   validator.New(),
		logger:     logger,
	}
}

// createJobRequest is the manual entry payload. Manual WIP numbers must be
// exactly 5 digits.
type createJobRequest struct {
	WIPNumber           string `json:"wip_number" validate:"required,len=5,number"`
	VehicleRegistration string `json:"vehicle_registration" validate:"required,min=2,max=10"`
	AWValue             int    `json:"aw_value" validate:"min=0,max=100"`
	JobDescription      string `json:"job_description"`
	Notes               string `json:"notes"`
	VHCStatus           string `json:"vhc_status"`
}

type updateJobRequest struct {
	VehicleRegistration *string `json:"vehicle_registration,omitempty" validate:"omitempty,min=2,max=10"`
	AWValue             *int    `json:"aw_value,omitempty" validate:"omitempty,min=0,max=100"`
	JobDescription      *string `json:"job_description,omitempty"`
	Notes               *string `json:"notes,omitempty"`
	VHCStatus           *string `json:"vhc_status,omitempty"`
}

// listOrderFields maps order_by query values onto record fields. Anything
// else is rejected rather than passed through to the store.
var listOrderFields = map[string]string{
	"date_created":  "DateCreated",
	"date_modified": "DateModified",
	"wip_number":    "WIPNumber",
	"aw_value":      "AWValue",
}

// ListJobsHandler handles GET /api/jobs with optional month/year filters,
// paging and ordering
func (h *JobHandler) ListJobsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	opts := &interfaces.JobListOptions{}
	query := r.URL.Query()
	if monthStr := query.Get("month"); monthStr != "" {
		if m, err := strconv.Atoi(monthStr); err == nil && m >= 1 && m <= 12 {
			opts.Month = time.Month(m)
		} else {
			WriteError(w, http.StatusBadRequest, "Invalid month parameter")
			return
		}
	}
	if yearStr := query.Get("year"); yearStr != "" {
		if y, err := strconv.Atoi(yearStr); err == nil && y > 0 {
			opts.Year = y
		} else {
			WriteError(w, http.StatusBadRequest, "Invalid year parameter")
			return
		}
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			opts.Limit = l
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o > 0 {
			opts.Offset = o
		}
	}
	if orderBy := query.Get("order_by"); orderBy != "" {
		field, ok := listOrderFields[orderBy]
		if !ok {
			WriteError(w, http.StatusBadRequest, "Invalid order_by parameter")
			return
		}
		opts.OrderBy = field
		if strings.EqualFold(query.Get("order_dir"), "desc") {
			opts.OrderDir = "DESC"
		} else {
			opts.OrderDir = "ASC"
		}
	}

	records, err := h.jobStorage.ListJobs(r.Context(), opts)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list job records")
		WriteError(w, http.StatusInternalServerError, "Failed to list job records")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  records,
		"count": len(records),
	})
}

// CreateJobHandler handles POST /api/jobs
func (h *JobHandler) CreateJobHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	record, err := models.NewJobRecord(common.NewJobID(), req.WIPNumber, req.VehicleRegistration, req.AWValue, time.Now().UTC())
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	record.JobDescription = req.JobDescription
	record.Notes = req.Notes
	if req.VHCStatus != "" {
		record.VHCStatus = models.NormalizeVHCStatus(req.VHCStatus)
	}

	if err := h.jobStorage.SaveJob(r.Context(), record); err != nil {
		h.logger.Error().Err(err).Msg("Failed to save job record")
		WriteError(w, http.StatusInternalServerError, "Failed to save job record")
		return
	}

	h.logger.Info().Str("job_id", record.ID).Str("wip", record.WIPNumber).Msg("Job record created")
	WriteJSON(w, http.StatusCreated, record)
}

// JobByIDHandler routes GET/PUT/DELETE /api/jobs/{id}
func (h *JobHandler) JobByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	switch r.Method {
	case "GET":
		h.getJob(w, r, id)
	case "PUT":
		h.updateJob(w, r, id)
	case "DELETE":
		h.deleteJob(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *JobHandler) getJob(w http.ResponseWriter, r *http.Request, id string) {
	record, err := h.jobStorage.GetJob(r.Context(), id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Job record not found")
			return
		}
		h.logger.Error().Err(err).Str("job_id", id).Msg("Failed to get job record")
		WriteError(w, http.StatusInternalServerError, "Failed to get job record")
		return
	}
	WriteJSON(w, http.StatusOK, record)
}

func (h *JobHandler) updateJob(w http.ResponseWriter, r *http.Request, id string) {
	record, err := h.jobStorage.GetJob(r.Context(), id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Job record not found")
			return
		}
		h.logger.Error().Err(err).Str("job_id", id).Msg("Failed to get job record")
		WriteError(w, http.StatusInternalServerError, "Failed to get job record")
		return
	}

	var req updateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	if req.VehicleRegistration != nil {
		record.VehicleRegistration = strings.ToUpper(strings.TrimSpace(*req.VehicleRegistration))
	}
	if req.AWValue != nil {
		if err := record.SetAWValue(*req.AWValue); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.JobDescription != nil {
		record.JobDescription = *req.JobDescription
	}
	if req.Notes != nil {
		record.Notes = *req.Notes
	}
	if req.VHCStatus != nil {
		record.VHCStatus = models.NormalizeVHCStatus(*req.VHCStatus)
	}
	record.Touch(time.Now().UTC())

	if err := h.jobStorage.SaveJob(r.Context(), record); err != nil {
		h.logger.Error().Err(err).Str("job_id", id).Msg("Failed to update job record")
		WriteError(w, http.StatusInternalServerError, "Failed to update job record")
		return
	}

	WriteJSON(w, http.StatusOK, record)
}

func (h *JobHandler) deleteJob(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.jobStorage.DeleteJob(r.Context(), id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Job record not found")
			return
		}
		h.logger.Error().Err(err).Str("job_id", id).Msg("Failed to delete job record")
		WriteError(w, http.StatusInternalServerError, "Failed to delete job record")
		return
	}

	h.logger.Info().Str("job_id", id).Msg("Job record deleted")
	WriteSuccess(w, "Job record deleted")
}
