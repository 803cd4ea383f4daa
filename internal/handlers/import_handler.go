package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/torque/internal/interfaces"
	"github.com/ternarybob/torque/internal/models"
	"github.com/ternarybob/torque/internal/services/importer"
)

// maxImportBodySize caps upload size for import endpoints (10 MB)
const maxImportBodySize = 10 * 1024 * 1024

// ImportHandler handles import session HTTP requests
type ImportHandler struct {
	importService *importer.Service
	logger        arbor.ILogger
}

// NewImportHandler creates a new import handler
func NewImportHandler(importService *importer.Service, logger arbor.ILogger) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		logger:        logger,
	}
}

// ImportJSONHandler handles POST /api/import/json with the import document
// as the request body.
func (h *ImportHandler) ImportJSONHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportBodySize))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	session, err := h.importService.StartJSON(r.Context(), data)
	if err != nil {
		h.logger.Warn().Err(err).Msg("JSON import rejected")
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusCreated, session)
}

// ImportPDFHandler handles POST /api/import/pdf with a multipart "file" part
// or a raw PDF body.
func (h *ImportHandler) ImportPDFHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var content []byte
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImportBodySize); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid multipart form")
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Missing file part")
			return
		}
		defer file.Close()
		content, err = io.ReadAll(io.LimitReader(file, maxImportBodySize))
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Failed to read uploaded file")
			return
		}
	} else {
		var err error
		content, err = io.ReadAll(io.LimitReader(r.Body, maxImportBodySize))
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Failed to read request body")
			return
		}
	}

	if len(content) == 0 {
		WriteError(w, http.StatusBadRequest, "Empty PDF upload")
		return
	}

	session, err := h.importService.StartPDF(r.Context(), content)
	if err != nil {
		h.logger.Warn().Err(err).Msg("PDF import rejected")
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusCreated, session)
}

// SessionRoutesHandler routes /api/import/{session} and its subpaths:
// GET    /api/import/{session}           - session state and rows
// DELETE /api/import/{session}           - discard session
// POST   /api/import/{session}/edit      - batch edit selected rows
// POST   /api/import/{session}/action    - set one row's disposition
// POST   /api/import/{session}/validate  - dry-run batch validation
// POST   /api/import/{session}/merge     - confirm and merge
func (h *ImportHandler) SessionRoutesHandler(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/import/")
	parts := strings.SplitN(path, "/", 2)
	sessionID := parts[0]
	if sessionID == "" {
		WriteError(w, http.StatusBadRequest, "Missing session ID")
		return
	}

	sub := ""
	if len(parts) == 2 {
		sub = parts[1]
	}

	switch {
	case sub == "" && r.Method == "GET":
		h.getSession(w, r, sessionID)
	case sub == "" && r.Method == "DELETE":
		h.discardSession(w, r, sessionID)
	case sub == "edit" && r.Method == "POST":
		h.editRows(w, r, sessionID)
	case sub == "action" && r.Method == "POST":
		h.setRowAction(w, r, sessionID)
	case sub == "validate" && r.Method == "POST":
		h.validateSession(w, r, sessionID)
	case sub == "merge" && r.Method == "POST":
		h.mergeSession(w, r, sessionID)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

func (h *ImportHandler) getSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := h.importService.GetSession(r.Context(), sessionID)
	if err != nil {
		h.writeSessionError(w, sessionID, err)
		return
	}
	WriteJSON(w, http.StatusOK, session)
}

func (h *ImportHandler) discardSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := h.importService.DiscardSession(r.Context(), sessionID); err != nil {
		h.writeSessionError(w, sessionID, err)
		return
	}
	WriteSuccess(w, "Import session discarded")
}

func (h *ImportHandler) editRows(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req struct {
		Selected []string          `json:"selected"`
		Edit     importer.BatchEdit `json:"edit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.importService.EditRows(r.Context(), sessionID, req.Selected, req.Edit)
	if err != nil {
		h.writeSessionError(w, sessionID, err)
		return
	}
	WriteJSON(w, http.StatusOK, session)
}

func (h *ImportHandler) setRowAction(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req struct {
		RowID  string           `json:"row_id"`
		Action models.RowAction `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.importService.SetRowAction(r.Context(), sessionID, req.RowID, req.Action)
	if err != nil {
		h.writeSessionError(w, sessionID, err)
		return
	}
	WriteJSON(w, http.StatusOK, session)
}

func (h *ImportHandler) validateSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := h.importService.Validate(r.Context(), sessionID)
	if err != nil {
		h.writeSessionError(w, sessionID, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": session.ID,
		"valid":      len(session.Errors) == 0,
		"errors":     session.Errors,
	})
}

func (h *ImportHandler) mergeSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	result, err := h.importService.Merge(r.Context(), sessionID, time.Now().UTC())
	if err != nil {
		h.writeSessionError(w, sessionID, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

func (h *ImportHandler) writeSessionError(w http.ResponseWriter, sessionID string, err error) {
	if errors.Is(err, interfaces.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "Import session not found")
		return
	}
	h.logger.Error().Err(err).Str("session_id", sessionID).Msg("Import session operation failed")
	WriteError(w, http.StatusInternalServerError, err.Error())
}
