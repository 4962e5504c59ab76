// SPDX-License-Identifier: Apache-2.0

// Package adapter provides the transport layer for communicating with the
// craft-market backend.
//
// The primary abstraction is [ServerAdapter], which decouples the service
// layer from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/ashvale/go-craft-market/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// TokenSource supplies bearer credentials for authenticated requests and
// resolves authorization failures. The session manager implements it.
type TokenSource interface {
	// AccessToken returns the current access token, or an empty string when
	// no session is active. Requests without a token proceed
	// unauthenticated.
	AccessToken() string

	// HandleUnauthorized is invoked after a request came back 401. It must
	// refresh the access token — coalescing concurrent callers onto a
	// single refresh — and return the new token, or an error if the session
	// cannot be recovered.
	HandleUnauthorized(ctx context.Context) (string, error)
}

// JobQuery carries the optional filters accepted by the open-jobs listing.
type JobQuery struct {
	// Page selects a result page, 1-based. Zero means the first page.
	Page int

	// Search matches against items requested, server, node and category.
	Search string

	// Category restricts results to a single crafting discipline.
	Category models.ItemCategory

	// Ordering names a sort key: "average_bid", "bid_count" or "deadline",
	// optionally prefixed with "-" for descending.
	Ordering string
}

// ServerAdapter defines transport-agnostic communication with the
// craft-market backend. Implementations are responsible for serialisation,
// authentication header management, the single post-refresh retry after a
// 401, and mapping transport-level failures to the sentinel values defined
// in this package.
type ServerAdapter interface {
	// SetTokenSource wires the session manager that supplies bearer tokens
	// and resolves 401 responses. Must be called before any authenticated
	// request is issued.
	SetTokenSource(ts TokenSource)

	// Register creates a new account. It does not authenticate the caller.
	Register(ctx context.Context, creds models.Credentials) error

	// ObtainToken exchanges credentials for a token pair.
	// Returns [ErrUnauthorized] (wrapped) when the credentials are rejected.
	ObtainToken(ctx context.Context, creds models.Credentials) (models.TokenPair, error)

	// RefreshToken exchanges a refresh token for a new access token.
	RefreshToken(ctx context.Context, refresh string) (string, error)

	// CurrentUser fetches the authenticated account's identity.
	CurrentUser(ctx context.Context) (models.Identity, error)

	// Profile fetches the authenticated account's marketplace profile.
	Profile(ctx context.Context) (models.Profile, error)

	// UpdateProfile applies a partial profile update and returns the result.
	UpdateProfile(ctx context.Context, patch models.ProfilePatch) (models.Profile, error)

	// ListJobs fetches a page of open jobs matching q.
	ListJobs(ctx context.Context, q JobQuery) (models.Page[models.Job], error)

	// CreateJob posts a new job and returns the server's representation.
	CreateJob(ctx context.Context, spec models.JobSpec) (models.Job, error)

	// GetJob fetches a single job by id.
	GetJob(ctx context.Context, jobID int64) (models.Job, error)

	// UpdateJob applies a partial update to a job and returns the result.
	UpdateJob(ctx context.Context, jobID int64, patch models.JobPatch) (models.Job, error)

	// DeleteJob removes a job.
	DeleteJob(ctx context.Context, jobID int64) error

	// MyJobs fetches every job posted by the authenticated user.
	MyJobs(ctx context.Context) ([]models.Job, error)

	// MyBids fetches every bid placed by the authenticated user.
	MyBids(ctx context.Context) ([]models.Bid, error)

	// ListBids fetches the bids on a job, oldest first. The backend only
	// discloses the full list to the job owner.
	ListBids(ctx context.Context, jobID int64) ([]models.Bid, error)

	// CreateBid submits a bid on a job and returns the server's
	// representation. Returns [ErrBadRequest] (wrapped) when the caller
	// already has a bid on the job.
	CreateBid(ctx context.Context, jobID int64, spec models.BidSpec) (models.Bid, error)

	// GetBid fetches a single bid by id.
	GetBid(ctx context.Context, bidID int64) (models.Bid, error)

	// DeleteBid withdraws a bid.
	DeleteBid(ctx context.Context, bidID int64) error

	// AcceptBid accepts the given bid on a job. The server enforces
	// exclusivity atomically; a lost race surfaces as [ErrBadRequest] or
	// [ErrConflict] (wrapped).
	AcceptBid(ctx context.Context, jobID, bidID int64) error

	// MarkBidCompleted reports the accepted bid's work as finished.
	MarkBidCompleted(ctx context.Context, bidID int64) error

	// MarkJobDelivered reports the completed job's goods as received.
	MarkJobDelivered(ctx context.Context, jobID int64) error

	// Notifications fetches a page of the user's notifications. Zero page
	// means the first page.
	Notifications(ctx context.Context, page int) (models.Page[models.Notification], error)
}
