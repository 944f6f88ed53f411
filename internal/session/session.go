package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"naayee/internal/models"
	"naayee/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

var (
	// ErrNoSession means no credential is stored: the user must log in.
	ErrNoSession = errors.New("session: not logged in")

	// ErrExpired means the stored credential's exp claim is in the past. The
	// credential is cleared before this is returned.
	ErrExpired = errors.New("session: credential expired")
)

// Store is the persistent keyed storage the credential lives in.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Manager is the single accessor for the stored session credential. Every
// read goes through the expiry check so the expired-means-absent invariant
// holds in one place. Writes happen only at login and at detected expiry.
type Manager struct {
	store  Store
	logger zerolog.Logger
	now    func() time.Time
}

func NewManager(store Store, logger zerolog.Logger) *Manager {
	return &Manager{store: store, logger: logger, now: time.Now}
}

// Token returns the stored credential, or an empty string with ErrNoSession
// or ErrExpired. An expired credential is cleared as a side effect.
func (m *Manager) Token(ctx context.Context) (string, error) {
	token, err := m.store.Get(ctx, models.CredentialKey)
	if errors.Is(err, storage.ErrNotFound) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("session: read credential: %w", err)
	}

	if expired(token, m.now()) {
		m.logger.Info().Msg("stored credential expired, clearing")
		if err := m.store.Delete(ctx, models.CredentialKey); err != nil {
			m.logger.Error().Err(err).Msg("failed to clear expired credential")
		}
		return "", ErrExpired
	}

	return token, nil
}

// SetToken stores a freshly issued credential.
func (m *Manager) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("session: refusing to store empty credential")
	}
	return m.store.Set(ctx, models.CredentialKey, token)
}

// Clear removes the stored credential (logout, or a server-side 401).
func (m *Manager) Clear(ctx context.Context) error {
	return m.store.Delete(ctx, models.CredentialKey)
}

// Validate reports whether a usable credential is stored. It returns
// ErrNoSession or ErrExpired otherwise.
func (m *Manager) Validate(ctx context.Context) error {
	_, err := m.Token(ctx)
	return err
}

// expired reads the exp claim without verifying the signature. The server
// re-validates the credential on every request; this check only exists to
// short-circuit to the login flow. A token with no exp claim never expires
// client-side; a token that does not parse at all is treated as expired.
func expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return true
	}
	if exp == nil {
		return false
	}
	return now.After(exp.Time)
}
