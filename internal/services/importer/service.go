package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/torque/internal/common"
	"github.com/ternarybob/torque/internal/interfaces"
	"github.com/ternarybob/torque/internal/models"
)

// Service orchestrates import sessions: parsing, interactive correction,
// batch validation and the final merge into the job record collection.
type Service struct {
	jobStorage     interfaces.JobStorage
	sessionStorage interfaces.ImportSessionStorage
	pdfExtractor   interfaces.PDFExtractor
	validate       *validator.Validate
	maxBatchSize   int
	maxOpen        int
	logger         arbor.ILogger
}

// NewService creates a new import service
func NewService(
	jobStorage interfaces.JobStorage,
	sessionStorage interfaces.ImportSessionStorage,
	pdfExtractor interfaces.PDFExtractor,
	config *common.ImportConfig,
	logger arbor.ILogger,
) *Service {
	return &Service{
		jobStorage:     jobStorage,
		sessionStorage: sessionStorage,
		pdfExtractor:   pdfExtractor,
		validate:       validator.New(),
		maxBatchSize:   config.MaxBatchSize,
		maxOpen:        config.SessionMaxOpen,
		logger:         logger,
	}
}

// StartJSON parses a JSON import document and opens a session in the
// preview_ready state. Malformed documents and batches over the hard cap are
// rejected with a single error before any row-level parsing.
func (s *Service) StartJSON(ctx context.Context, data []byte) (*models.ImportSession, error) {
	var doc models.ImportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unparsable import document: %w", err)
	}
	if err := s.validate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("invalid import document: %w", err)
	}
	return s.startSession(ctx, models.SourceTypeJSON, doc.Jobs)
}

// StartPDF extracts text from a PDF job sheet, parses the recognized job
// lines into rows, and opens a session in the preview_ready state.
func (s *Service) StartPDF(ctx context.Context, pdfContent []byte) (*models.ImportSession, error) {
	text, err := s.pdfExtractor.ExtractTextFromBytes(ctx, pdfContent)
	if err != nil {
		return nil, fmt.Errorf("failed to extract PDF text: %w", err)
	}

	rows := s.pdfExtractor.ParseJobRows(text)
	if len(rows) == 0 {
		return nil, fmt.Errorf("no job rows recognized in PDF document")
	}
	return s.startSession(ctx, models.SourceTypePDF, rows)
}

func (s *Service) startSession(ctx context.Context, sourceType models.SourceType, raw []models.ImportRow) (*models.ImportSession, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("import batch contains no jobs")
	}
	if len(raw) > s.maxBatchSize {
		return nil, fmt.Errorf("import batch of %d jobs exceeds the %d job limit", len(raw), s.maxBatchSize)
	}

	open, err := s.sessionStorage.CountOpenSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count open import sessions: %w", err)
	}
	if open >= s.maxOpen {
		return nil, fmt.Errorf("too many open import sessions (%d), complete or discard one first", open)
	}

	now := time.Now().UTC()
	session := &models.ImportSession{
		ID:         common.NewImportSessionID(),
		SourceType: sourceType,
		State:      models.SessionStateIdle,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := session.TransitionTo(models.SessionStateParsing); err != nil {
		return nil, err
	}

	session.Rows = make([]models.ParsedJobRow, 0, len(raw))
	for _, r := range raw {
		session.Rows = append(session.Rows, NormalizeRow(r))
	}

	if err := session.TransitionTo(models.SessionStatePreviewReady); err != nil {
		return nil, err
	}

	if err := s.sessionStorage.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist import session: %w", err)
	}

	s.logger.Info().
		Str("session_id", session.ID).
		Str("source", string(sourceType)).
		Int("rows", len(session.Rows)).
		Msg("Import session opened")

	return session, nil
}

// GetSession returns the session with the given ID.
func (s *Service) GetSession(ctx context.Context, id string) (*models.ImportSession, error) {
	return s.sessionStorage.GetSession(ctx, id)
}

// DiscardSession deletes an in-flight session without merging.
func (s *Service) DiscardSession(ctx context.Context, id string) error {
	return s.sessionStorage.DeleteSession(ctx, id)
}

// EditRows applies one batch edit to the selected rows of a preview_ready
// session and recomputes their confidence.
func (s *Service) EditRows(ctx context.Context, sessionID string, selected []string, edit BatchEdit) (*models.ImportSession, error) {
	session, err := s.sessionStorage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != models.SessionStatePreviewReady {
		return nil, fmt.Errorf("import session %s is not editable in state %s", sessionID, session.State)
	}

	if err := ApplyBatchEdit(session.Rows, selected, edit); err != nil {
		return nil, err
	}

	session.UpdatedAt = time.Now().UTC()
	if err := s.sessionStorage.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist import session: %w", err)
	}
	return session, nil
}

// SetRowAction changes the reconciliation disposition of one row.
func (s *Service) SetRowAction(ctx context.Context, sessionID, rowID string, action models.RowAction) (*models.ImportSession, error) {
	switch action {
	case models.RowActionCreate, models.RowActionUpdate, models.RowActionSkip:
	default:
		return nil, fmt.Errorf("unknown row action: %s", action)
	}

	session, err := s.sessionStorage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != models.SessionStatePreviewReady {
		return nil, fmt.Errorf("import session %s is not editable in state %s", sessionID, session.State)
	}

	found := false
	for i := range session.Rows {
		if session.Rows[i].ID == rowID {
			session.Rows[i].Action = action
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("row %s not found in session %s", rowID, sessionID)
	}

	session.UpdatedAt = time.Now().UTC()
	if err := s.sessionStorage.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist import session: %w", err)
	}
	return session, nil
}

// Validate runs the cross-row batch validation as a dry run and attaches the
// error report to the session. The session stays in preview_ready; no writes
// occur.
func (s *Service) Validate(ctx context.Context, sessionID string) (*models.ImportSession, error) {
	session, err := s.sessionStorage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != models.SessionStatePreviewReady {
		return nil, fmt.Errorf("import session %s cannot be validated in state %s", sessionID, session.State)
	}

	session.Errors = ValidateBatch(session.Rows)
	session.UpdatedAt = time.Now().UTC()
	if err := s.sessionStorage.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist import session: %w", err)
	}
	return session, nil
}

// Merge runs the confirmed merge: validation first (all-or-nothing; a
// non-empty report aborts with no writes), then a snapshot merge persisted
// through a single atomic storage write. A storage failure returns the
// session to preview_ready with no partial state retained.
func (s *Service) Merge(ctx context.Context, sessionID string, now time.Time) (*models.ImportResult, error) {
	session, err := s.sessionStorage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != models.SessionStatePreviewReady {
		return nil, fmt.Errorf("import session %s cannot merge in state %s", sessionID, session.State)
	}

	if err := session.TransitionTo(models.SessionStateValidating); err != nil {
		return nil, err
	}

	if report := ValidateBatch(session.Rows); len(report) > 0 {
		// ValidationFailed returns to PreviewReady with errors attached;
		// the operator corrects rows and retries. No silent auto-retry.
		if err := session.TransitionTo(models.SessionStateValidationFailed); err != nil {
			return nil, err
		}
		if err := session.TransitionTo(models.SessionStatePreviewReady); err != nil {
			return nil, err
		}
		session.Errors = report
		session.UpdatedAt = now
		if err := s.sessionStorage.SaveSession(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to persist import session: %w", err)
		}
		return &models.ImportResult{
			Success: false,
			Message: fmt.Sprintf("Validation failed with %d errors", len(report)),
			Errors:  len(report),
			Details: report,
		}, nil
	}

	if err := session.TransitionTo(models.SessionStateMerging); err != nil {
		return nil, err
	}

	// Snapshot of the existing collection, taken once at merge time
	existing, err := s.jobStorage.ListJobs(ctx, nil)
	if err != nil {
		session.State = models.SessionStatePreviewReady
		return nil, fmt.Errorf("failed to load job collection: %w", err)
	}

	merged, result := MergeRows(existing, session.Rows, session.SourceType, now)

	if err := s.jobStorage.ReplaceAll(ctx, merged); err != nil {
		// Surface the storage failure and return to preview so the caller
		// can retry the whole merge from the same in-memory preview.
		session.State = models.SessionStatePreviewReady
		session.UpdatedAt = now
		if saveErr := s.sessionStorage.SaveSession(ctx, session); saveErr != nil {
			s.logger.Error().Err(saveErr).Str("session_id", sessionID).Msg("Failed to persist session after merge failure")
		}
		return nil, fmt.Errorf("failed to persist merged collection: %w", err)
	}

	if err := session.TransitionTo(models.SessionStateComplete); err != nil {
		return nil, err
	}
	session.Result = result
	session.Errors = nil
	session.UpdatedAt = now
	if err := s.sessionStorage.SaveSession(ctx, session); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("Merge succeeded but session state could not be persisted")
	}

	s.logger.Info().
		Str("session_id", sessionID).
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Msg("Import merge complete")

	return result, nil
}
