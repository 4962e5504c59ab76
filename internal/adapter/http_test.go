package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashvale/go-craft-market/internal/config"
	"github.com/ashvale/go-craft-market/internal/logger"
	"github.com/ashvale/go-craft-market/models"
)

// stubTokens is a minimal TokenSource: a fixed access token plus a canned
// refresh outcome.
type stubTokens struct {
	mu        sync.Mutex
	token     string
	nextToken string
	refreshes int
}

func (s *stubTokens) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *stubTokens) HandleUnauthorized(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshes++
	s.token = s.nextToken
	return s.token, nil
}

func newTestAdapter(t *testing.T, handler http.Handler) (ServerAdapter, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	a, err := NewHTTPServerAdapter(config.Adapter{
		BaseURL:        srv.URL,
		RequestTimeout: 5 * time.Second,
	}, logger.Nop())
	require.NoError(t, err)

	return a, srv
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

// ── Token endpoints ──────────────────────────────────────────────────────────

func TestObtainToken_Success(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/token/", func(w http.ResponseWriter, req *http.Request) {
		var creds models.Credentials
		require.NoError(t, json.NewDecoder(req.Body).Decode(&creds))
		assert.Equal(t, "tester", creds.Username)
		assert.Equal(t, "hunter2", creds.Password)
		assert.NotEmpty(t, req.Header.Get("X-Request-ID"))

		writeJSON(t, w, http.StatusOK, models.TokenPair{Access: "acc", Refresh: "ref"})
	})

	a, _ := newTestAdapter(t, r)

	pair, err := a.ObtainToken(context.Background(), models.Credentials{Username: "tester", Password: "hunter2"})
	require.NoError(t, err)
	assert.Equal(t, "acc", pair.Access)
	assert.Equal(t, "ref", pair.Refresh)
}

func TestObtainToken_Rejected(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/token/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"detail": "No active account found"})
	})

	a, _ := newTestAdapter(t, r)

	_, err := a.ObtainToken(context.Background(), models.Credentials{Username: "tester", Password: "wrong"})
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefreshToken(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/token/refresh/", func(w http.ResponseWriter, req *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, "ref", body["refresh"])

		writeJSON(t, w, http.StatusOK, map[string]string{"access": "acc-2"})
	})

	a, _ := newTestAdapter(t, r)

	access, err := a.RefreshToken(context.Background(), "ref")
	require.NoError(t, err)
	assert.Equal(t, "acc-2", access)
}

// ── Authentication header and the 401 retry ──────────────────────────────────

func TestAuthenticatedRequestCarriesBearer(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/jobs/{jobID}/", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "Bearer acc", req.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, models.Job{ID: 11})
	})

	a, _ := newTestAdapter(t, r)
	a.SetTokenSource(&stubTokens{token: "acc"})

	job, err := a.GetJob(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, int64(11), job.ID)
}

func TestExpiredTokenIsRefreshedAndRetriedOnce(t *testing.T) {
	var calls int
	r := chi.NewRouter()
	r.Get("/api/current-user/", func(w http.ResponseWriter, req *http.Request) {
		calls++
		if req.Header.Get("Authorization") != "Bearer fresh" {
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"detail": "token expired"})
			return
		}
		writeJSON(t, w, http.StatusOK, models.Identity{ID: 7, Username: "tester"})
	})

	a, _ := newTestAdapter(t, r)
	tokens := &stubTokens{token: "stale", nextToken: "fresh"}
	a.SetTokenSource(tokens)

	identity, err := a.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tester", identity.Username)
	assert.Equal(t, 1, tokens.refreshes)
	assert.Equal(t, 2, calls)
}

func TestPersistentUnauthorizedIsNotRetriedTwice(t *testing.T) {
	var calls int
	r := chi.NewRouter()
	r.Get("/api/current-user/", func(w http.ResponseWriter, _ *http.Request) {
		calls++
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"detail": "nope"})
	})

	a, _ := newTestAdapter(t, r)
	tokens := &stubTokens{token: "stale", nextToken: "still-bad"}
	a.SetTokenSource(tokens)

	_, err := a.CurrentUser(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, tokens.refreshes, "exactly one refresh per failed request")
	assert.Equal(t, 2, calls, "exactly one retry per failed request")
}

// ── Status code mapping ──────────────────────────────────────────────────────

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{status: http.StatusBadRequest, want: ErrBadRequest},
		{status: http.StatusForbidden, want: ErrForbidden},
		{status: http.StatusNotFound, want: ErrNotFound},
		{status: http.StatusConflict, want: ErrConflict},
		{status: http.StatusInternalServerError, want: ErrInternalServerError},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			r := chi.NewRouter()
			r.Get("/api/jobs/{jobID}/", func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(t, w, tt.status, map[string]string{"detail": "error"})
			})

			a, _ := newTestAdapter(t, r)
			a.SetTokenSource(&stubTokens{token: "acc"})

			_, err := a.GetJob(context.Background(), 11)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	a, err := NewHTTPServerAdapter(config.Adapter{
		BaseURL:        srv.URL,
		RequestTimeout: time.Second,
	}, logger.Nop())
	require.NoError(t, err)

	_, err = a.ObtainToken(context.Background(), models.Credentials{})
	require.ErrorIs(t, err, ErrUnreachable)
}

// ── Job and bid endpoints ────────────────────────────────────────────────────

func TestListJobs_QueryFilters(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/jobs/", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "longsword", q.Get("search"))
		assert.Equal(t, "Weapon Smithing", q.Get("item_category"))
		assert.Equal(t, "-average_bid", q.Get("ordering"))

		writeJSON(t, w, http.StatusOK, models.Page[models.Job]{
			Count:    21,
			Previous: "http://backend/api/jobs/?page=1",
			Results:  []models.Job{{ID: 11}},
		})
	})

	a, _ := newTestAdapter(t, r)

	page, err := a.ListJobs(context.Background(), JobQuery{
		Page:     2,
		Search:   "longsword",
		Category: models.CategoryWeaponSmithing,
		Ordering: "-average_bid",
	})
	require.NoError(t, err)
	assert.Equal(t, 21, page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, int64(11), page.Results[0].ID)
}

func TestCreateJob_PriceTravelsInDenominations(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/jobs/", func(w http.ResponseWriter, req *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, float64(5), body["gold"])
		assert.Equal(t, float64(25), body["silver"])
		assert.Equal(t, float64(0), body["copper"])

		writeJSON(t, w, http.StatusCreated, models.Job{ID: 12, TotalCopper: 52500, Status: models.JobPosted})
	})

	a, _ := newTestAdapter(t, r)
	a.SetTokenSource(&stubTokens{token: "acc"})

	job, err := a.CreateJob(context.Background(), models.JobSpec{
		CrafterName:    "Thalrik",
		Server:         "Vyra",
		Node:           "Winstead",
		ItemsRequested: "20x Iron Longsword",
		Category:       models.CategoryWeaponSmithing,
		Money:          models.Money{Gold: 5, Silver: 25},
		Deadline:       "2026-10-01",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(52500), job.TotalCopper)
}

func TestAcceptBid_PostsBidID(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/jobs/{jobID}/accept-bid/", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "11", chi.URLParam(req, "jobID"))

		var body map[string]int64
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, int64(3), body["bid_id"])

		writeJSON(t, w, http.StatusOK, map[string]string{"message": "bid accepted"})
	})

	a, _ := newTestAdapter(t, r)
	a.SetTokenSource(&stubTokens{token: "acc"})

	require.NoError(t, a.AcceptBid(context.Background(), 11, 3))
}

func TestLifecycleEndpoints(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/bids/{bidID}/mark-completed/", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "3", chi.URLParam(req, "bidID"))
		writeJSON(t, w, http.StatusOK, map[string]string{"message": "marked completed"})
	})
	r.Post("/api/jobs/{jobID}/mark-delivered/", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "11", chi.URLParam(req, "jobID"))
		writeJSON(t, w, http.StatusOK, map[string]string{"message": "marked delivered"})
	})

	a, _ := newTestAdapter(t, r)
	a.SetTokenSource(&stubTokens{token: "acc"})

	require.NoError(t, a.MarkBidCompleted(context.Background(), 3))
	require.NoError(t, a.MarkJobDelivered(context.Background(), 11))
}

func TestNotifications_Pagination(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/notifications/", func(w http.ResponseWriter, req *http.Request) {
		assert.Empty(t, req.URL.Query().Get("page"), "first page must not send a page param")
		writeJSON(t, w, http.StatusOK, models.Page[models.Notification]{
			Count:   1,
			Results: []models.Notification{{ID: 1, Type: models.NotifyNewBid}},
		})
	})

	a, _ := newTestAdapter(t, r)
	a.SetTokenSource(&stubTokens{token: "acc"})

	page, err := a.Notifications(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, models.NotifyNewBid, page.Results[0].Type)
}
