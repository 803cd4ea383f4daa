// Package auth implements the PIN gate guarding mutating operations.
// Biometric prompts are a platform concern and live outside this service;
// callers that pass the platform's biometric check may bypass the PIN the
// same way the UI does, by not configuring one.
package auth

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/torque/internal/common"
	"github.com/ternarybob/torque/internal/interfaces"
	"github.com/ternarybob/torque/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var pinPattern = regexp.MustCompile(`^\d{4,6}$`)

// ErrLocked is returned while the gate is locked out after repeated failures
var ErrLocked = fmt.Errorf("PIN entry locked, try again later")

// ErrInvalidPIN is returned when verification fails
var ErrInvalidPIN = fmt.Errorf("invalid PIN")

// Service manages the PIN credential and verification lockout state
type Service struct {
	settingsStorage interfaces.SettingsStorage
	logger          arbor.ILogger

	mu          sync.Mutex
	failures    int
	lockedUntil time.Time

	maxFailures int
	lockoutFor  time.Duration
}

// NewService creates a new PIN gate service
func NewService(settingsStorage interfaces.SettingsStorage, config *common.AuthConfig, logger arbor.ILogger) (*Service, error) {
	lockout, err := time.ParseDuration(config.LockoutFor)
	if err != nil {
		return nil, fmt.Errorf("invalid auth lockout duration %q: %w", config.LockoutFor, err)
	}

	return &Service{
		settingsStorage: settingsStorage,
		logger:          logger,
		maxFailures:     config.MaxFailures,
		lockoutFor:      lockout,
	}, nil
}

// Enabled reports whether a PIN has been configured.
func (s *Service) Enabled(ctx context.Context) bool {
	_, err := s.settingsStorage.GetPINCredential(ctx)
	return err == nil
}

// SetPIN hashes and stores a new PIN. Changing the PIN requires the current
// one when a credential already exists.
func (s *Service) SetPIN(ctx context.Context, currentPIN, newPIN string) error {
	if !pinPattern.MatchString(newPIN) {
		return fmt.Errorf("PIN must be 4-6 digits")
	}

	if s.Enabled(ctx) {
		if err := s.Verify(ctx, currentPIN); err != nil {
			return fmt.Errorf("current PIN check failed: %w", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPIN), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash PIN: %w", err)
	}

	cred := &models.PINCredential{
		Hash:      hash,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.settingsStorage.SavePINCredential(ctx, cred); err != nil {
		return fmt.Errorf("failed to store PIN credential: %w", err)
	}

	s.mu.Lock()
	s.failures = 0
	s.lockedUntil = time.Time{}
	s.mu.Unlock()

	s.logger.Info().Msg("PIN credential updated")
	return nil
}

// Verify checks a PIN attempt against the stored credential. After
// maxFailures consecutive failures the gate locks for the configured
// duration; attempts during lockout return ErrLocked without touching the
// failure counter.
func (s *Service) Verify(ctx context.Context, pin string) error {
	s.mu.Lock()
	if time.Now().Before(s.lockedUntil) {
		s.mu.Unlock()
		return ErrLocked
	}
	s.mu.Unlock()

	cred, err := s.settingsStorage.GetPINCredential(ctx)
	if err != nil {
		if err == interfaces.ErrNotFound {
			return fmt.Errorf("no PIN configured")
		}
		return fmt.Errorf("failed to load PIN credential: %w", err)
	}

	if bcrypt.CompareHashAndPassword(cred.Hash, []byte(pin)) != nil {
		s.mu.Lock()
		s.failures++
		if s.failures >= s.maxFailures {
			s.lockedUntil = time.Now().Add(s.lockoutFor)
			s.failures = 0
			s.logger.Warn().
				Int("max_failures", s.maxFailures).
				Str("locked_for", s.lockoutFor.String()).
				Msg("PIN entry locked after repeated failures")
		}
		s.mu.Unlock()
		return ErrInvalidPIN
	}

	s.mu.Lock()
	s.failures = 0
	s.mu.Unlock()
	return nil
}
