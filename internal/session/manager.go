package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/omniwatch/cinema-client/internal/api"
	"github.com/omniwatch/cinema-client/internal/domain"
)

// AuthAPI is the slice of the gateway the session lifecycle needs.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*api.TokenPair, error)
	Register(ctx context.Context, input api.RegisterRequest) (*api.RegisterResponse, error)
	Profile(ctx context.Context) (*domain.User, error)
}

// Manager drives the session lifecycle against the backend: credential
// exchange, registration, restore on startup and teardown. All state lives
// in the injected Store.
type Manager struct {
	store  *Store
	api    AuthAPI
	logger *slog.Logger
}

func NewManager(store *Store, authAPI AuthAPI, logger *slog.Logger) *Manager {
	return &Manager{
		store:  store,
		api:    authAPI,
		logger: logger,
	}
}

// Login exchanges credentials for a token pair and loads the profile. On
// failure the stored session is left exactly as it was.
func (m *Manager) Login(ctx context.Context, username, password string) (*domain.User, error) {
	pair, err := m.api.Login(ctx, username, password)
	if err != nil {
		m.logger.Warn("login failed", "username", username)
		return nil, err
	}

	m.store.SetTokens(pair.Access, pair.Refresh)

	user, err := m.api.Profile(ctx)
	if err != nil {
		return nil, err
	}

	m.store.SetUser(user)
	m.logger.Info("logged in", "user_id", user.ID)

	return user, nil
}

// Register creates an account. The backend logs the new user in as part of
// registration, so the returned token pair is stored directly. Field-level
// validation errors pass through untouched for display.
func (m *Manager) Register(ctx context.Context, input api.RegisterRequest) (*domain.User, error) {
	resp, err := m.api.Register(ctx, input)
	if err != nil {
		return nil, err
	}

	m.store.SetTokens(resp.Access, resp.Refresh)
	user := resp.User
	m.store.SetUser(&user)
	m.logger.Info("registered", "user_id", user.ID)

	return &user, nil
}

// Logout clears both token slots and the user identity. Idempotent and
// purely local; the backend keeps no session to tear down.
func (m *Manager) Logout() {
	m.store.Clear()
	m.logger.Info("logged out")
}

// Restore re-establishes the session from persisted tokens at process
// start. A stale or invalid pair is cleared and reported as "no session"
// rather than an error, mirroring a silent failed auth check in the UI.
func (m *Manager) Restore(ctx context.Context) *domain.User {
	if m.store.AccessToken() == "" && m.store.RefreshToken() == "" {
		return nil
	}

	// an expired access token with no refresh token on hand cannot be
	// recovered; clear the slots instead of issuing a doomed profile call
	if exp, ok := m.store.AccessTokenExpiry(); ok && !exp.After(time.Now()) {
		if m.store.RefreshToken() == "" {
			m.logger.Info("stored access token expired, clearing session")
			m.store.Clear()
			return nil
		}

		m.logger.Debug("stored access token expired, relying on refresh", "access_expired_at", exp)
	}

	user, err := m.api.Profile(ctx)
	if err != nil {
		m.logger.Warn("session restore failed, clearing tokens", "error", err)
		m.store.Clear()
		return nil
	}

	m.store.SetUser(user)

	return user
}
