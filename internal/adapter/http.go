package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/ashvale/go-craft-market/internal/config"
	"github.com/ashvale/go-craft-market/internal/logger"
	"github.com/ashvale/go-craft-market/models"
)

type httpServerAdapter struct {
	client *resty.Client

	mu     sync.RWMutex
	tokens TokenSource

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates the base URL from
// cfg.BaseURL, configures the underlying resty client with the resolved
// base URL and request timeout, and stamps every outbound request with an
// X-Request-ID correlation header.
//
// Returns an error if cfg.BaseURL is empty or cannot be parsed as a valid
// URL.
func NewHTTPServerAdapter(cfg config.Adapter, log *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter base url: %w", err)
	}

	cli := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout)

	cli.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		r.SetHeader("X-Request-ID", uuid.NewString())
		return nil
	})

	return &httpServerAdapter{client: cli, logger: log}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetTokenSource implements [ServerAdapter].
func (h *httpServerAdapter) SetTokenSource(ts TokenSource) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tokens = ts
}

func (h *httpServerAdapter) tokenSource() TokenSource {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.tokens
}

// request builds a plain JSON request without credentials.
func (h *httpServerAdapter) request(ctx context.Context) *resty.Request {
	return h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json")
}

// authedRequest builds a request carrying the current access token, if any.
// Without a token the request proceeds unauthenticated.
func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.request(ctx)
	if ts := h.tokenSource(); ts != nil {
		if token := ts.AccessToken(); token != "" {
			req.SetHeader("Authorization", "Bearer "+token)
		}
	}
	return req
}

// send issues an authenticated request built by build. On a 401 with an
// active session it asks the token source for exactly one refresh — the
// source coalesces concurrent refreshes — and re-issues the request once
// with the new access token. Every other outcome is returned as-is.
func (h *httpServerAdapter) send(ctx context.Context, build func(r *resty.Request) (*resty.Response, error)) (*resty.Response, error) {
	resp, err := build(h.authedRequest(ctx))
	if err != nil {
		return nil, mapTransportError(err)
	}
	if resp.StatusCode() != http.StatusUnauthorized {
		return resp, nil
	}

	ts := h.tokenSource()
	if ts == nil || ts.AccessToken() == "" {
		return resp, nil
	}

	access, err := ts.HandleUnauthorized(ctx)
	if err != nil {
		return nil, err
	}

	retry, err := build(h.request(ctx).SetHeader("Authorization", "Bearer "+access))
	if err != nil {
		return nil, mapTransportError(err)
	}
	return retry, nil
}

// Register implements [ServerAdapter]. It POSTs the credentials to
// POST /api/register/. Registration does not authenticate the account.
func (h *httpServerAdapter) Register(ctx context.Context, creds models.Credentials) error {
	resp, err := h.request(ctx).
		SetBody(creds).
		Post("/api/register/")
	if err != nil {
		return fmt.Errorf("register request: %w", mapTransportError(err))
	}

	return mapHTTPError(resp)
}

// ObtainToken implements [ServerAdapter]. It POSTs the credentials to
// POST /api/token/ and returns the issued pair. A rejected login surfaces
// as [ErrUnauthorized] (wrapped).
func (h *httpServerAdapter) ObtainToken(ctx context.Context, creds models.Credentials) (models.TokenPair, error) {
	var pair models.TokenPair

	resp, err := h.request(ctx).
		SetBody(creds).
		SetResult(&pair).
		Post("/api/token/")
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("obtain token request: %w", mapTransportError(err))
	}
	if err = mapHTTPError(resp); err != nil {
		return models.TokenPair{}, err
	}

	return pair, nil
}

// RefreshToken implements [ServerAdapter]. It POSTs the refresh token to
// POST /api/token/refresh/ and returns the new access token.
func (h *httpServerAdapter) RefreshToken(ctx context.Context, refresh string) (string, error) {
	var result struct {
		Access string `json:"access"`
	}

	resp, err := h.request(ctx).
		SetBody(map[string]string{"refresh": refresh}).
		SetResult(&result).
		Post("/api/token/refresh/")
	if err != nil {
		return "", fmt.Errorf("refresh token request: %w", mapTransportError(err))
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	return result.Access, nil
}

// CurrentUser implements [ServerAdapter]. It GETs /api/current-user/.
func (h *httpServerAdapter) CurrentUser(ctx context.Context) (models.Identity, error) {
	var identity models.Identity

	resp, err := h.send(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&identity).Get("/api/current-user/")
	})
	if err != nil {
		return models.Identity{}, fmt.Errorf("current user request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Identity{}, err
	}

	return identity, nil
}

// Profile implements [ServerAdapter]. It GETs /api/profiles/me/.
func (h *httpServerAdapter) Profile(ctx context.Context) (models.Profile, error) {
	var profile models.Profile

	resp, err := h.send(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&profile).Get("/api/profiles/me/")
	})
	if err != nil {
		return models.Profile{}, fmt.Errorf("profile request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Profile{}, err
	}

	return profile, nil
}

// UpdateProfile implements [ServerAdapter]. It PUTs the patch to
// PUT /api/profiles/me/.
func (h *httpServerAdapter) UpdateProfile(ctx context.Context, patch models.ProfilePatch) (models.Profile, error) {
	var profile models.Profile

	resp, err := h.send(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(patch).SetResult(&profile).Put("/api/profiles/me/")
	})
	if err != nil {
		return models.Profile{}, fmt.Errorf("update profile request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Profile{}, err
	}

	return profile, nil
}

// ListJobs implements [ServerAdapter]. It GETs /api/jobs/ with the query
// filters from q and decodes the paginated envelope.
func (h *httpServerAdapter) ListJobs(ctx context.Context, q JobQuery) (models.Page[models.Job], error) {
	var page models.Page[models.Job]

	resp, err := h.send(ctx, func(r *resty.Request) (*resty.Response, error) {
		if q.Page > 1 {
			r.SetQueryParam("page", strconv.Itoa(q.Page))
		}
		if q.Search != "" {
			r.SetQueryParam("search", q.Search)
		}
		if q.Category != "" {
			r.SetQueryParam("item_category", string(q.Category))
		}
		if q.Ordering != "" {
			r.SetQueryParam("ordering", q.Ordering)
		}
		return r.SetResult(&page).Get("/api/jobs/")
	})
	if err != nil {
		return models.Page[models.Job]{}, fmt.Errorf("list jobs request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Page[models.Job]{}, err
	}

	return page, nil
}

// CreateJob implements [ServerAdapter]. It POSTs the spec to /api/jobs/.
func (h *httpServerAdapter) CreateJob(ctx context.Context, spec models.JobSpec) (models.Job, error) {
	var job models.Job

	resp, err := h.send(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(spec).SetResult(&job).Post("/api/jobs/")
	})
	if err != nil {
		return models.Job{}, fmt.Errorf("create job request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Job{}, err
	}

	return job, nil
}

// GetJob implements [ServerAdapter]. It GETs /api/jobs/{id}/.
func (h *httpServerAdapter) GetJob(ctx context.Context, jobID int64) (models.Job, error) {
	var job models.Job

	resp, err := h.send(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&job).Get(fmt.Sprintf("/api/jobs/%d/", jobID))
	})
	if err != nil {
		return models.Job{}, fmt.Errorf("get job request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Job{}, err
	}

	return job, nil
}

// UpdateJob implements [ServerAdapter]. It PUTs the patch to
// PUT /api/jobs/{id}/.
func (h *httpServerAdapter) UpdateJob(ctx context.Context, jobID int64, patch models.JobPatch) (models.Job, error) {
	var job models.Job

	resp, err := h.send(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(patch).SetResult(&job).Put(fmt.Sprintf("/api/jobs/%d/", jobID))
	})
	if err != nil {
		return models.Job{}, fmt.Errorf("update job request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Job{}, err
	}

	return job, nil
}

// DeleteJob implements [ServerAdapter]. It DELETEs /api/jobs/{id}/.
func (h *httpServerAdapter) DeleteJob(ctx context.Context, jobID int64) error {
	resp, err := h.send(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.Delete(fmt.Sprintf("/api/jobs/%d/", jobID))
	})
	if err != nil {
		return fmt.Errorf("delete job request: %w", err)
	}

	return mapHTTPError(resp)
}

// MyJobs implements [ServerAdapter]. It GETs /api/jobs/my-jobs/.
func (h *httpServerAdapter) MyJobs(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job

	resp, err := h.send(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&jobs).Get("/api/jobs/my-jobs/")
	})
	if err != nil {
		return nil, fmt.Errorf("my jobs request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return jobs, nil
}

// MyBids implements [ServerAdapter]. It GETs /api/bids/my-bids/.
func (h *httpServerAdapter) MyBids(ctx context.Context) ([]models.Bid, error) {
	var bids []models.Bid

	resp, err := h.send(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&bids).Get("/api/bids/my-bids/")
	})
	if err != nil {
		return nil, fmt.Errorf("my bids request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return bids, nil
}

// ListBids implements [ServerAdapter]. It GETs /api/jobs/{id}/bids/.
func (h *httpServerAdapter) ListBids(ctx context.Context, jobID int64) ([]models.Bid, error) {
	var bids []models.Bid

	resp, err := h.send(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&bids).Get(fmt.Sprintf("/api/jobs/%d/bids/", jobID))
	})
	if err != nil {
		return nil, fmt.Errorf("list bids request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return bids, nil
}

// CreateBid implements [ServerAdapter]. It POSTs the spec to
// POST /api/jobs/{id}/bids/.
func (h *httpServerAdapter) CreateBid(ctx context.Context, jobID int64, spec models.BidSpec) (models.Bid, error) {
	var bid models.Bid

	resp, err := h.send(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(spec).SetResult(&bid).Post(fmt.Sprintf("/api/jobs/%d/bids/", jobID))
	})
	if err != nil {
		return models.Bid{}, fmt.Errorf("create bid request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Bid{}, err
	}

	return bid, nil
}

// GetBid implements [ServerAdapter]. It GETs /api/bids/{id}/.
func (h *httpServerAdapter) GetBid(ctx context.Context, bidID int64) (models.Bid, error) {
	var bid models.Bid

	resp, err := h.send(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&bid).Get(fmt.Sprintf("/api/bids/%d/", bidID))
	})
	if err != nil {
		return models.Bid{}, fmt.Errorf("get bid request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Bid{}, err
	}

	return bid, nil
}

// DeleteBid implements [ServerAdapter]. It DELETEs /api/bids/{id}/.
func (h *httpServerAdapter) DeleteBid(ctx context.Context, bidID int64) error {
	resp, err := h.send(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.Delete(fmt.Sprintf("/api/bids/%d/", bidID))
	})
	if err != nil {
		return fmt.Errorf("delete bid request: %w", err)
	}

	return mapHTTPError(resp)
}

// AcceptBid implements [ServerAdapter]. It POSTs the bid id to
// POST /api/jobs/{id}/accept-bid/.
func (h *httpServerAdapter) AcceptBid(ctx context.Context, jobID, bidID int64) error {
	resp, err := h.send(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetBody(map[string]int64{"bid_id": bidID}).
			Post(fmt.Sprintf("/api/jobs/%d/accept-bid/", jobID))
	})
	if err != nil {
		return fmt.Errorf("accept bid request: %w", err)
	}

	return mapHTTPError(resp)
}

// MarkBidCompleted implements [ServerAdapter]. It POSTs to
// POST /api/bids/{id}/mark-completed/.
func (h *httpServerAdapter) MarkBidCompleted(ctx context.Context, bidID int64) error {
	resp, err := h.send(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.Post(fmt.Sprintf("/api/bids/%d/mark-completed/", bidID))
	})
	if err != nil {
		return fmt.Errorf("mark bid completed request: %w", err)
	}

	return mapHTTPError(resp)
}

// MarkJobDelivered implements [ServerAdapter]. It POSTs to
// POST /api/jobs/{id}/mark-delivered/.
func (h *httpServerAdapter) MarkJobDelivered(ctx context.Context, jobID int64) error {
	resp, err := h.send(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.Post(fmt.Sprintf("/api/jobs/%d/mark-delivered/", jobID))
	})
	if err != nil {
		return fmt.Errorf("mark job delivered request: %w", err)
	}

	return mapHTTPError(resp)
}

// Notifications implements [ServerAdapter]. It GETs /api/notifications/ and
// decodes the paginated envelope.
func (h *httpServerAdapter) Notifications(ctx context.Context, page int) (models.Page[models.Notification], error) {
	var result models.Page[models.Notification]

	resp, err := h.send(ctx, func(r *resty.Request) (*resty.Response, error) {
		if page > 1 {
			r.SetQueryParam("page", strconv.Itoa(page))
		}
		return r.SetResult(&result).Get("/api/notifications/")
	})
	if err != nil {
		return models.Page[models.Notification]{}, fmt.Errorf("notifications request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Page[models.Notification]{}, err
	}

	return result, nil
}
