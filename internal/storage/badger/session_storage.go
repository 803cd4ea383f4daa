package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/torque/internal/interfaces"
	"github.com/ternarybob/torque/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// SessionStorage implements the ImportSessionStorage interface for Badger
type SessionStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSessionStorage creates a new SessionStorage instance
func NewSessionStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ImportSessionStorage {
	return &SessionStorage{
		db:     db,
		logger: logger,
	}
}

func (s *SessionStorage) SaveSession(ctx context.Context, session *models.ImportSession) error {
	if session == nil {
		return fmt.Errorf("import session is required")
	}
	if session.ID == "" {
		return fmt.Errorf("import session ID is required")
	}
	if err := s.db.Store().Upsert(session.ID, session); err != nil {
		return fmt.Errorf("failed to save import session: %w", err)
	}
	return nil
}

func (s *SessionStorage) GetSession(ctx context.Context, id string) (*models.ImportSession, error) {
	var session models.ImportSession
	if err := s.db.Store().Get(id, &session); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get import session: %w", err)
	}
	return &session, nil
}

func (s *SessionStorage) DeleteSession(ctx context.Context, id string) error {
	if err := s.db.Store().Delete(id, &models.ImportSession{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return interfaces.ErrNotFound
		}
		return fmt.Errorf("failed to delete import session: %w", err)
	}
	return nil
}

// CountOpenSessions counts sessions that have not reached the complete state.
func (s *SessionStorage) CountOpenSessions(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.ImportSession{},
		badgerhold.Where("State").Ne(models.SessionStateComplete))
	if err != nil {
		return 0, fmt.Errorf("failed to count open import sessions: %w", err)
	}
	return int(count), nil
}
