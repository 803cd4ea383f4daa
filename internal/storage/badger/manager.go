package badger

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/torque/internal/common"
	"github.com/ternarybob/torque/internal/interfaces"
)

// Manager owns the Badger connection and the storage implementations
type Manager struct {
	db              *BadgerDB
	jobStorage      interfaces.JobStorage
	settingsStorage interfaces.SettingsStorage
	sessionStorage  interfaces.ImportSessionStorage
	logger          arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.StorageManager = (*Manager)(nil)

// NewManager opens the database and wires up all storages
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (*Manager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize badger storage: %w", err)
	}

	return &Manager{
		db:              db,
		jobStorage:      NewJobStorage(db, logger),
		settingsStorage: NewSettingsStorage(db, logger),
		sessionStorage:  NewSessionStorage(db, logger),
		logger:          logger,
	}, nil
}

func (m *Manager) JobStorage() interfaces.JobStorage {
	return m.jobStorage
}

func (m *Manager) SettingsStorage() interfaces.SettingsStorage {
	return m.settingsStorage
}

func (m *Manager) ImportSessionStorage() interfaces.ImportSessionStorage {
	return m.sessionStorage
}

func (m *Manager) Close() error {
	m.logger.Debug().Msg("Closing storage manager")
	return m.db.Close()
}
