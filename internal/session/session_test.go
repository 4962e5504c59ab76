package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ashvale/go-craft-market/internal/adapter"
	"github.com/ashvale/go-craft-market/internal/logger"
	"github.com/ashvale/go-craft-market/internal/mock"
	"github.com/ashvale/go-craft-market/internal/store"
	"github.com/ashvale/go-craft-market/models"
)

func newTestManager(t *testing.T) (*Manager, *mock.MockServerAdapter, *mock.MockCredentialRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)

	mockAdapter := mock.NewMockServerAdapter(ctrl)
	mockCreds := mock.NewMockCredentialRepository(ctrl)
	return NewManager(mockAdapter, mockCreds, logger.Nop()), mockAdapter, mockCreds
}

func loginTestManager(t *testing.T, m *Manager, mockAdapter *mock.MockServerAdapter, mockCreds *mock.MockCredentialRepository) {
	t.Helper()
	ctx := context.Background()

	pair := models.TokenPair{Access: "access-1", Refresh: "refresh-1"}
	mockAdapter.EXPECT().ObtainToken(ctx, gomock.Any()).Return(pair, nil)
	mockCreds.EXPECT().SaveTokens(ctx, pair).Return(nil)
	mockAdapter.EXPECT().CurrentUser(ctx).Return(models.Identity{ID: 7, Username: "tester"}, nil)

	_, err := m.Login(ctx, "tester", "hunter2")
	require.NoError(t, err)
}

// ── Login / Logout ───────────────────────────────────────────────────────────

func TestLogin_Success(t *testing.T) {
	m, mockAdapter, mockCreds := newTestManager(t)
	loginTestManager(t, m, mockAdapter, mockCreds)

	assert.True(t, m.Authenticated())
	assert.Equal(t, "access-1", m.AccessToken())

	identity := m.Identity()
	require.NotNil(t, identity)
	assert.Equal(t, "tester", identity.Username)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	m, mockAdapter, _ := newTestManager(t)
	ctx := context.Background()

	mockAdapter.EXPECT().
		ObtainToken(ctx, gomock.Any()).
		Return(models.TokenPair{}, adapter.ErrUnauthorized)

	_, err := m.Login(ctx, "tester", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, m.Authenticated())
	assert.Empty(t, m.AccessToken())
}

// A broken local database must not block login; the session just won't
// survive a restart.
func TestLogin_PersistFailureIsNonFatal(t *testing.T) {
	m, mockAdapter, mockCreds := newTestManager(t)
	ctx := context.Background()

	pair := models.TokenPair{Access: "access-1", Refresh: "refresh-1"}
	mockAdapter.EXPECT().ObtainToken(ctx, gomock.Any()).Return(pair, nil)
	mockCreds.EXPECT().SaveTokens(ctx, pair).Return(errors.New("disk full"))
	mockAdapter.EXPECT().CurrentUser(ctx).Return(models.Identity{ID: 7}, nil)

	_, err := m.Login(ctx, "tester", "hunter2")
	require.NoError(t, err)
	assert.True(t, m.Authenticated())
}

func TestLogout_Idempotent(t *testing.T) {
	m, mockAdapter, mockCreds := newTestManager(t)
	loginTestManager(t, m, mockAdapter, mockCreds)

	ctx := context.Background()
	mockCreds.EXPECT().ClearTokens(ctx).Return(nil).Times(2)

	m.Logout(ctx)
	assert.False(t, m.Authenticated())
	assert.Nil(t, m.Identity())

	m.Logout(ctx)
	assert.False(t, m.Authenticated())
}

// ── Restore ──────────────────────────────────────────────────────────────────

func TestRestore_Success(t *testing.T) {
	m, mockAdapter, mockCreds := newTestManager(t)
	ctx := context.Background()

	pair := models.TokenPair{Access: "stored-access", Refresh: "stored-refresh"}
	mockCreds.EXPECT().LoadTokens(ctx).Return(pair, nil)
	mockAdapter.EXPECT().CurrentUser(ctx).Return(models.Identity{ID: 7, Username: "tester"}, nil)

	require.NoError(t, m.Restore(ctx))
	assert.True(t, m.Authenticated())
	assert.Equal(t, "stored-access", m.AccessToken())
	require.NotNil(t, m.Identity())
}

func TestRestore_NoStoredSession(t *testing.T) {
	m, _, mockCreds := newTestManager(t)
	ctx := context.Background()

	mockCreds.EXPECT().LoadTokens(ctx).Return(models.TokenPair{}, store.ErrNoStoredSession)

	err := m.Restore(ctx)
	require.ErrorIs(t, err, store.ErrNoStoredSession)
	assert.False(t, m.Authenticated())
}

func TestRestore_ExpiredTokens(t *testing.T) {
	m, mockAdapter, mockCreds := newTestManager(t)
	ctx := context.Background()

	pair := models.TokenPair{Access: "stale-access", Refresh: "stale-refresh"}
	mockCreds.EXPECT().LoadTokens(ctx).Return(pair, nil)
	mockAdapter.EXPECT().CurrentUser(ctx).Return(models.Identity{}, ErrSessionExpired)

	err := m.Restore(ctx)
	require.ErrorIs(t, err, ErrSessionExpired)
}

// ── HandleUnauthorized ───────────────────────────────────────────────────────

func TestHandleUnauthorized_RefreshesAccessToken(t *testing.T) {
	m, mockAdapter, mockCreds := newTestManager(t)
	loginTestManager(t, m, mockAdapter, mockCreds)
	ctx := context.Background()

	mockAdapter.EXPECT().RefreshToken(ctx, "refresh-1").Return("access-2", nil)
	mockCreds.EXPECT().
		SaveTokens(ctx, models.TokenPair{Access: "access-2", Refresh: "refresh-1"}).
		Return(nil)

	access, err := m.HandleUnauthorized(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-2", access)
	assert.Equal(t, "access-2", m.AccessToken())
}

func TestHandleUnauthorized_NoSession(t *testing.T) {
	m, _, mockCreds := newTestManager(t)
	ctx := context.Background()

	mockCreds.EXPECT().ClearTokens(ctx).Return(nil)

	_, err := m.HandleUnauthorized(ctx)
	require.ErrorIs(t, err, ErrSessionExpired)
}

func TestHandleUnauthorized_RefreshRejected(t *testing.T) {
	m, mockAdapter, mockCreds := newTestManager(t)
	loginTestManager(t, m, mockAdapter, mockCreds)
	ctx := context.Background()

	mockAdapter.EXPECT().
		RefreshToken(ctx, "refresh-1").
		Return("", adapter.ErrUnauthorized)
	mockCreds.EXPECT().ClearTokens(ctx).Return(nil)

	_, err := m.HandleUnauthorized(ctx)
	require.ErrorIs(t, err, ErrSessionExpired)
	assert.False(t, m.Authenticated(), "session must be cleared after a rejected refresh")
}

// Many requests observing a 401 at once must trigger exactly one refresh
// call; every waiter shares the new access token.
func TestHandleUnauthorized_SingleFlight(t *testing.T) {
	m, mockAdapter, mockCreds := newTestManager(t)
	loginTestManager(t, m, mockAdapter, mockCreds)
	ctx := context.Background()

	var refreshCalls int64
	mockAdapter.EXPECT().
		RefreshToken(gomock.Any(), "refresh-1").
		DoAndReturn(func(context.Context, string) (string, error) {
			atomic.AddInt64(&refreshCalls, 1)
			time.Sleep(50 * time.Millisecond)
			return "access-2", nil
		}).
		Times(1)
	mockCreds.EXPECT().
		SaveTokens(gomock.Any(), models.TokenPair{Access: "access-2", Refresh: "refresh-1"}).
		Return(nil)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]string, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = m.HandleUnauthorized(ctx)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&refreshCalls))
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "access-2", results[i])
	}
}

// ── Profile ──────────────────────────────────────────────────────────────────

func TestProfile_RequiresSession(t *testing.T) {
	m, _, _ := newTestManager(t)

	_, err := m.Profile(context.Background())
	require.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = m.UpdateProfile(context.Background(), models.ProfilePatch{})
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestUpdateProfile_Passthrough(t *testing.T) {
	m, mockAdapter, mockCreds := newTestManager(t)
	loginTestManager(t, m, mockAdapter, mockCreds)
	ctx := context.Background()

	name := "Thalrik"
	patch := models.ProfilePatch{CrafterName: &name}
	mockAdapter.EXPECT().
		UpdateProfile(ctx, patch).
		Return(models.Profile{CrafterName: name}, nil)

	profile, err := m.UpdateProfile(ctx, patch)
	require.NoError(t, err)
	assert.Equal(t, name, profile.CrafterName)
}
