package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/torque/internal/common"
	"github.com/ternarybob/torque/internal/handlers"
	"github.com/ternarybob/torque/internal/interfaces"
	"github.com/ternarybob/torque/internal/services/auth"
	"github.com/ternarybob/torque/internal/services/importer"
	"github.com/ternarybob/torque/internal/services/pdf"
	"github.com/ternarybob/torque/internal/services/report"
	"github.com/ternarybob/torque/internal/services/stats"
	"github.com/ternarybob/torque/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Services
	StatsService  *stats.Service
	ImportService *importer.Service
	AuthService   *auth.Service
	ReportService *report.Service
	PDFExtractor  interfaces.PDFExtractor

	// HTTP handlers
	APIHandler      *handlers.APIHandler
	JobHandler      *handlers.JobHandler
	StatsHandler    *handlers.StatsHandler
	ImportHandler   *handlers.ImportHandler
	AuthHandler     *handlers.AuthHandler
	SettingsHandler *handlers.SettingsHandler
	ReportHandler   *handlers.ReportHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	logger.Info().Msg("Application initialization complete")
	return app, nil
}

// initDatabase initializes the storage layer (Badger)
func (a *App) initDatabase() error {
	storageManager, err := badger.NewManager(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = storageManager
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	return nil
}

// initServices initializes all business services in dependency order
func (a *App) initServices() error {
	a.PDFExtractor = pdf.NewExtractor(a.Logger)

	a.StatsService = stats.NewService(
		a.StorageManager.JobStorage(),
		a.StorageManager.SettingsStorage(),
		a.Logger,
	)
	a.Logger.Debug().Msg("Statistics service initialized")

	a.ImportService = importer.NewService(
		a.StorageManager.JobStorage(),
		a.StorageManager.ImportSessionStorage(),
		a.PDFExtractor,
		&a.Config.Import,
		a.Logger,
	)
	a.Logger.Debug().Int("max_batch_size", a.Config.Import.MaxBatchSize).Msg("Import service initialized")

	authService, err := auth.NewService(
		a.StorageManager.SettingsStorage(),
		&a.Config.Auth,
		a.Logger,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize auth service: %w", err)
	}
	a.AuthService = authService
	a.Logger.Debug().Msg("Auth service initialized")

	a.ReportService = report.NewService(
		a.StorageManager.JobStorage(),
		a.StorageManager.SettingsStorage(),
		a.Config.Report.WorkshopName,
		a.Logger,
	)
	a.Logger.Debug().Msg("Report service initialized")

	return nil
}

// initHandlers initializes all HTTP handlers
func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.Logger)
	a.JobHandler = handlers.NewJobHandler(a.StorageManager.JobStorage(), a.Logger)
	a.StatsHandler = handlers.NewStatsHandler(a.StatsService, a.Logger)
	a.ImportHandler = handlers.NewImportHandler(a.ImportService, a.Logger)
	a.AuthHandler = handlers.NewAuthHandler(a.AuthService, a.Logger)
	a.SettingsHandler = handlers.NewSettingsHandler(a.StorageManager.SettingsStorage(), a.Logger)
	a.ReportHandler = handlers.NewReportHandler(a.ReportService, a.Logger)
}

// Close closes all application resources
func (a *App) Close() error {
	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}
	return nil
}
