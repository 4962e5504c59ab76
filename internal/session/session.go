// SPDX-License-Identifier: Apache-2.0

// Package session owns the client's credential pair and authenticated
// identity.
//
// The [Manager] is the single writer of the persisted token entries and the
// identity cache; every other component reads through its accessors. It
// implements [adapter.TokenSource], so the transport layer resolves 401
// responses through the manager's single-flight refresh: no matter how many
// requests observe an expired access token concurrently, exactly one
// refresh call reaches the backend and every waiter shares its outcome.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/ashvale/go-craft-market/internal/adapter"
	"github.com/ashvale/go-craft-market/internal/logger"
	"github.com/ashvale/go-craft-market/internal/store"
	"github.com/ashvale/go-craft-market/models"
)

// Manager owns the session lifecycle: Anonymous -> Authenticated on login,
// back to Anonymous on logout or irrecoverable refresh failure.
type Manager struct {
	adapter adapter.ServerAdapter
	creds   store.CredentialRepository
	logger  *logger.Logger

	mu       sync.RWMutex
	session  *models.Session
	identity *models.Identity

	refresh singleflight.Group
}

// NewManager constructs a session manager bound to the given transport and
// credential store. The caller must also register the manager as the
// adapter's token source.
func NewManager(serverAdapter adapter.ServerAdapter, creds store.CredentialRepository, log *logger.Logger) *Manager {
	return &Manager{adapter: serverAdapter, creds: creds, logger: log}
}

// Login exchanges the credentials for a token pair, persists it, and caches
// the authenticated identity. Rejected credentials surface as
// [ErrInvalidCredentials].
func (m *Manager) Login(ctx context.Context, username, password string) (models.Session, error) {
	pair, err := m.adapter.ObtainToken(ctx, models.Credentials{Username: username, Password: password})
	if err != nil {
		if errors.Is(err, adapter.ErrUnauthorized) {
			return models.Session{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
		}
		return models.Session{}, fmt.Errorf("login: %w", err)
	}

	sess := models.NewSession(pair)

	m.mu.Lock()
	m.session = &sess
	m.identity = nil
	m.mu.Unlock()

	if err = m.creds.SaveTokens(ctx, pair); err != nil {
		// The session still works for this process; it just won't survive
		// a restart.
		m.logger.Warn().Err(err).Msg("failed to persist session tokens")
	}

	m.fetchIdentity(ctx)

	return sess, nil
}

// Register creates a new account. It does not authenticate the caller; a
// subsequent Login is required.
func (m *Manager) Register(ctx context.Context, username, password string) error {
	err := m.adapter.Register(ctx, models.Credentials{Username: username, Password: password})
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// Logout clears the in-memory session, the cached identity, and the
// persisted credential entries. It is idempotent and always succeeds
// locally; storage failures are logged, not returned.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.session = nil
	m.identity = nil
	m.mu.Unlock()

	if err := m.creds.ClearTokens(ctx); err != nil {
		m.logger.Warn().Err(err).Msg("failed to clear persisted tokens")
	}
}

// Restore loads a persisted token pair and re-fetches the identity.
// Returns [store.ErrNoStoredSession] (wrapped) when nothing is persisted,
// and [ErrSessionExpired] when the stored tokens are no longer accepted.
func (m *Manager) Restore(ctx context.Context) error {
	pair, err := m.creds.LoadTokens(ctx)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	sess := models.NewSession(pair)

	m.mu.Lock()
	m.session = &sess
	m.identity = nil
	m.mu.Unlock()

	// The identity fetch doubles as token validation: a stale access token
	// triggers the 401 refresh path, and an unrecoverable one surfaces as
	// ErrSessionExpired with the session already cleared.
	identity, err := m.adapter.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, ErrSessionExpired) {
			return err
		}
		m.logger.Warn().Err(err).Msg("identity fetch failed during restore")
		return nil
	}

	m.mu.Lock()
	m.identity = &identity
	m.mu.Unlock()

	return nil
}

// Identity returns the cached authenticated identity, or nil when the
// client is anonymous or the profile fetch failed.
func (m *Manager) Identity() *models.Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.identity == nil {
		return nil
	}
	identity := *m.identity
	return &identity
}

// Session returns a copy of the active session, or nil when anonymous.
func (m *Manager) Session() *models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.session == nil {
		return nil
	}
	sess := *m.session
	return &sess
}

// Authenticated reports whether a session is active.
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session != nil
}

// Profile fetches the marketplace profile of the authenticated account.
func (m *Manager) Profile(ctx context.Context) (models.Profile, error) {
	if !m.Authenticated() {
		return models.Profile{}, ErrNotAuthenticated
	}
	return m.adapter.Profile(ctx)
}

// UpdateProfile applies a partial update to the authenticated account's
// profile and returns the result.
func (m *Manager) UpdateProfile(ctx context.Context, patch models.ProfilePatch) (models.Profile, error) {
	if !m.Authenticated() {
		return models.Profile{}, ErrNotAuthenticated
	}
	return m.adapter.UpdateProfile(ctx, patch)
}

// AccessToken implements [adapter.TokenSource].
func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.session == nil {
		return ""
	}
	return m.session.Access
}

// HandleUnauthorized implements [adapter.TokenSource]. It refreshes the
// access token using the stored refresh token, coalescing concurrent
// callers onto a single refresh call; everyone waiting on that call shares
// its outcome. When no refresh token exists or the refresh itself is
// rejected, the session is cleared and [ErrSessionExpired] is returned.
func (m *Manager) HandleUnauthorized(ctx context.Context) (string, error) {
	access, err, _ := m.refresh.Do("refresh", func() (any, error) {
		return m.refreshAccess(ctx)
	})
	if err != nil {
		return "", err
	}
	return access.(string), nil
}

func (m *Manager) refreshAccess(ctx context.Context) (string, error) {
	m.mu.RLock()
	var refreshToken string
	if m.session != nil {
		refreshToken = m.session.Refresh
	}
	m.mu.RUnlock()

	if refreshToken == "" {
		m.Logout(ctx)
		return "", ErrSessionExpired
	}

	access, err := m.adapter.RefreshToken(ctx, refreshToken)
	if err != nil {
		m.logger.Info().Err(err).Msg("token refresh rejected, dropping session")
		m.Logout(ctx)
		return "", fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}

	pair := models.TokenPair{Access: access, Refresh: refreshToken}
	sess := models.NewSession(pair)

	m.mu.Lock()
	m.session = &sess
	m.mu.Unlock()

	if err = m.creds.SaveTokens(ctx, pair); err != nil {
		m.logger.Warn().Err(err).Msg("failed to persist refreshed tokens")
	}

	return access, nil
}

func (m *Manager) fetchIdentity(ctx context.Context) {
	identity, err := m.adapter.CurrentUser(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Msg("identity fetch failed")
		return
	}

	m.mu.Lock()
	m.identity = &identity
	m.mu.Unlock()
}
