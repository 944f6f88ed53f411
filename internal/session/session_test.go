package session

import (
	"context"
	"testing"
	"time"

	"naayee/internal/models"
	"naayee/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	values map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: make(map[string]string)}
}

func (s *fakeStore) Get(ctx context.Context, key string) (string, error) {
	val, ok := s.values[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return val, nil
}

func (s *fakeStore) Set(ctx context.Context, key, value string) error {
	s.values[key] = value
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	delete(s.values, key)
	return nil
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-side-secret"))
	require.NoError(t, err)
	return token
}

func TestManager(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	t.Run("NoSession", func(t *testing.T) {
		m := NewManager(newFakeStore(), logger)
		_, err := m.Token(ctx)
		assert.ErrorIs(t, err, ErrNoSession)
		assert.ErrorIs(t, m.Validate(ctx), ErrNoSession)
	})

	t.Run("ValidToken", func(t *testing.T) {
		store := newFakeStore()
		m := NewManager(store, logger)
		token := signedToken(t, jwt.MapClaims{"sub": "cust-1", "exp": time.Now().Add(time.Hour).Unix()})
		require.NoError(t, m.SetToken(ctx, token))

		got, err := m.Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, token, got)
		assert.NoError(t, m.Validate(ctx))
	})

	t.Run("ExpiredTokenClearedOnRead", func(t *testing.T) {
		store := newFakeStore()
		m := NewManager(store, logger)
		token := signedToken(t, jwt.MapClaims{"sub": "cust-1", "exp": time.Now().Add(-time.Minute).Unix()})
		require.NoError(t, m.SetToken(ctx, token))

		_, err := m.Token(ctx)
		assert.ErrorIs(t, err, ErrExpired)
		// the credential must be gone, the next read sees no session
		assert.NotContains(t, store.values, models.CredentialKey)
		_, err = m.Token(ctx)
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("NoExpiryClaimNeverExpires", func(t *testing.T) {
		m := NewManager(newFakeStore(), logger)
		token := signedToken(t, jwt.MapClaims{"sub": "cust-1"})
		require.NoError(t, m.SetToken(ctx, token))

		got, err := m.Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, token, got)
	})

	t.Run("GarbageTokenTreatedAsExpired", func(t *testing.T) {
		store := newFakeStore()
		m := NewManager(store, logger)
		require.NoError(t, m.SetToken(ctx, "not-a-jwt"))

		_, err := m.Token(ctx)
		assert.ErrorIs(t, err, ErrExpired)
		assert.NotContains(t, store.values, models.CredentialKey)
	})

	t.Run("RefuseEmptyToken", func(t *testing.T) {
		m := NewManager(newFakeStore(), logger)
		assert.Error(t, m.SetToken(ctx, ""))
	})

	t.Run("Clear", func(t *testing.T) {
		store := newFakeStore()
		m := NewManager(store, logger)
		require.NoError(t, m.SetToken(ctx, signedToken(t, jwt.MapClaims{"sub": "x"})))
		require.NoError(t, m.Clear(ctx))
		_, err := m.Token(ctx)
		assert.ErrorIs(t, err, ErrNoSession)
	})
}
