// SPDX-License-Identifier: Apache-2.0

// Package ledger implements the job and bid lifecycle rules on top of the
// transport layer.
//
// Every mutating operation is gated locally before it reaches the wire:
// ownership, bid authorship, and the strictly forward job lifecycle
// (posted -> accepted -> completed -> delivered) are all checked against a
// freshly fetched server copy, never against cached state. The backend
// enforces the same rules authoritatively; the local gates exist to give
// callers precise sentinel errors instead of generic transport failures.
//
// Acceptance and completion follow confirm-then-apply: the server call is
// issued first, and the returned value is a refetch of the server's state,
// so the caller never observes a locally predicted outcome the backend did
// not actually commit.
package ledger

import (
	"context"
	"fmt"

	"github.com/ashvale/go-craft-market/internal/adapter"
	"github.com/ashvale/go-craft-market/internal/logger"
	"github.com/ashvale/go-craft-market/internal/session"
	"github.com/ashvale/go-craft-market/models"
)

// IdentitySource reports who the authenticated user is. The session manager
// implements it.
type IdentitySource interface {
	Identity() *models.Identity
}

// Ledger is the service layer for marketplace jobs and bids.
type Ledger struct {
	adapter  adapter.ServerAdapter
	identity IdentitySource
	logger   *logger.Logger
}

// NewLedger constructs the job/bid service on top of the given transport
// and identity source.
func NewLedger(serverAdapter adapter.ServerAdapter, identity IdentitySource, log *logger.Logger) *Ledger {
	return &Ledger{adapter: serverAdapter, identity: identity, logger: log}
}

func (l *Ledger) requireIdentity() (models.Identity, error) {
	identity := l.identity.Identity()
	if identity == nil {
		return models.Identity{}, session.ErrNotAuthenticated
	}
	return *identity, nil
}

// ListJobs fetches a page of open jobs matching the query. Available to
// anonymous callers.
func (l *Ledger) ListJobs(ctx context.Context, q adapter.JobQuery) (models.Page[models.Job], error) {
	return l.adapter.ListJobs(ctx, q)
}

// GetJob fetches a single job by id. Available to anonymous callers.
func (l *Ledger) GetJob(ctx context.Context, jobID int64) (models.Job, error) {
	return l.adapter.GetJob(ctx, jobID)
}

// PostJob validates and posts a new job, returning the server's
// representation.
func (l *Ledger) PostJob(ctx context.Context, spec models.JobSpec) (models.Job, error) {
	if _, err := l.requireIdentity(); err != nil {
		return models.Job{}, err
	}
	if err := validateJobSpec(spec); err != nil {
		return models.Job{}, err
	}

	job, err := l.adapter.CreateJob(ctx, spec)
	if err != nil {
		return models.Job{}, fmt.Errorf("post job: %w", err)
	}

	l.logger.Info().Int64("job", job.ID).Str("category", string(job.Category)).Msg("job posted")
	return job, nil
}

// EditJob applies a partial update to one of the caller's jobs. Only jobs
// still in the posted state can be edited.
func (l *Ledger) EditJob(ctx context.Context, jobID int64, patch models.JobPatch) (models.Job, error) {
	identity, err := l.requireIdentity()
	if err != nil {
		return models.Job{}, err
	}
	if err = validateJobPatch(patch); err != nil {
		return models.Job{}, err
	}

	job, err := l.adapter.GetJob(ctx, jobID)
	if err != nil {
		return models.Job{}, fmt.Errorf("edit job %d: %w", jobID, err)
	}
	if !job.Owned(identity.ID) {
		return models.Job{}, ErrNotOwner
	}
	if job.Status != models.JobPosted {
		return models.Job{}, fmt.Errorf("%w: status %s", ErrNotEditable, job.Status)
	}

	updated, err := l.adapter.UpdateJob(ctx, jobID, patch)
	if err != nil {
		return models.Job{}, fmt.Errorf("edit job %d: %w", jobID, err)
	}
	return updated, nil
}

// DeleteJob removes one of the caller's jobs. Only jobs still in the posted
// state can be deleted.
func (l *Ledger) DeleteJob(ctx context.Context, jobID int64) error {
	identity, err := l.requireIdentity()
	if err != nil {
		return err
	}

	job, err := l.adapter.GetJob(ctx, jobID)
	if err != nil {
		return fmt.Errorf("delete job %d: %w", jobID, err)
	}
	if !job.Owned(identity.ID) {
		return ErrNotOwner
	}
	if job.Status != models.JobPosted {
		return fmt.Errorf("%w: status %s", ErrNotEditable, job.Status)
	}

	if err = l.adapter.DeleteJob(ctx, jobID); err != nil {
		return fmt.Errorf("delete job %d: %w", jobID, err)
	}

	l.logger.Info().Int64("job", jobID).Msg("job deleted")
	return nil
}

// ListMyJobs fetches every job posted by the caller, regardless of state.
func (l *Ledger) ListMyJobs(ctx context.Context) ([]models.Job, error) {
	if _, err := l.requireIdentity(); err != nil {
		return nil, err
	}
	return l.adapter.MyJobs(ctx)
}

// ListMyBids fetches every bid placed by the caller.
func (l *Ledger) ListMyBids(ctx context.Context) ([]models.Bid, error) {
	if _, err := l.requireIdentity(); err != nil {
		return nil, err
	}
	return l.adapter.MyBids(ctx)
}

// ListBids fetches the bids on one of the caller's jobs, oldest first.
func (l *Ledger) ListBids(ctx context.Context, jobID int64) ([]models.Bid, error) {
	identity, err := l.requireIdentity()
	if err != nil {
		return nil, err
	}

	job, err := l.adapter.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("list bids on job %d: %w", jobID, err)
	}
	if !job.Owned(identity.ID) {
		return nil, ErrNotOwner
	}

	return l.adapter.ListBids(ctx, jobID)
}

// SubmitBid validates and places a bid on a posted job. A user holds at
// most one bid per job and cannot bid on their own posting.
func (l *Ledger) SubmitBid(ctx context.Context, jobID int64, spec models.BidSpec) (models.Bid, error) {
	identity, err := l.requireIdentity()
	if err != nil {
		return models.Bid{}, err
	}
	if err = validateBidSpec(spec); err != nil {
		return models.Bid{}, err
	}

	job, err := l.adapter.GetJob(ctx, jobID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("submit bid on job %d: %w", jobID, err)
	}
	if job.Owned(identity.ID) {
		return models.Bid{}, ErrOwnJob
	}
	if job.Status != models.JobPosted {
		return models.Bid{}, fmt.Errorf("%w: status %s", ErrNotAcceptingBids, job.Status)
	}

	bid, err := l.adapter.CreateBid(ctx, jobID, spec)
	if err != nil {
		return models.Bid{}, mapSubmitBidError(err)
	}

	l.logger.Info().Int64("job", jobID).Int64("bid", bid.ID).Msg("bid submitted")
	return bid, nil
}

// WithdrawBid removes one of the caller's bids. An accepted bid cannot be
// withdrawn.
func (l *Ledger) WithdrawBid(ctx context.Context, bidID int64) error {
	identity, err := l.requireIdentity()
	if err != nil {
		return err
	}

	bid, err := l.adapter.GetBid(ctx, bidID)
	if err != nil {
		return fmt.Errorf("withdraw bid %d: %w", bidID, err)
	}
	if bid.Bidder.ID != identity.ID {
		return ErrNotBidder
	}
	if bid.Accepted {
		return ErrBidAccepted
	}

	if err = l.adapter.DeleteBid(ctx, bidID); err != nil {
		return fmt.Errorf("withdraw bid %d: %w", bidID, err)
	}

	l.logger.Info().Int64("bid", bidID).Msg("bid withdrawn")
	return nil
}

// AcceptBid accepts a bid on one of the caller's posted jobs and returns
// the job as the server now sees it: status accepted and the winning bid
// recorded. Exclusivity is decided by the backend; losing a race with a
// concurrent acceptance surfaces as [ErrAlreadyAccepted].
func (l *Ledger) AcceptBid(ctx context.Context, jobID, bidID int64) (models.Job, error) {
	identity, err := l.requireIdentity()
	if err != nil {
		return models.Job{}, err
	}

	job, err := l.adapter.GetJob(ctx, jobID)
	if err != nil {
		return models.Job{}, fmt.Errorf("accept bid on job %d: %w", jobID, err)
	}
	if !job.Owned(identity.ID) {
		return models.Job{}, ErrNotOwner
	}
	if job.AcceptedBidID != nil {
		return models.Job{}, ErrAlreadyAccepted
	}
	if job.Status != models.JobPosted {
		return models.Job{}, fmt.Errorf("%w: cannot accept from %s", ErrInvalidTransition, job.Status)
	}

	if err = l.adapter.AcceptBid(ctx, jobID, bidID); err != nil {
		return models.Job{}, mapAcceptBidError(err)
	}

	confirmed, err := l.adapter.GetJob(ctx, jobID)
	if err != nil {
		return models.Job{}, fmt.Errorf("confirm acceptance on job %d: %w", jobID, err)
	}

	l.logger.Info().Int64("job", jobID).Int64("bid", bidID).Msg("bid accepted")
	return confirmed, nil
}

// MarkCompleted reports the caller's accepted bid as finished and returns
// the bid's parent job as the server now sees it.
func (l *Ledger) MarkCompleted(ctx context.Context, bidID int64) (models.Job, error) {
	identity, err := l.requireIdentity()
	if err != nil {
		return models.Job{}, err
	}

	bid, err := l.adapter.GetBid(ctx, bidID)
	if err != nil {
		return models.Job{}, fmt.Errorf("mark bid %d completed: %w", bidID, err)
	}
	if bid.Bidder.ID != identity.ID {
		return models.Job{}, ErrNotBidder
	}
	if !bid.Accepted {
		return models.Job{}, fmt.Errorf("%w: bid %d is not accepted", ErrInvalidTransition, bidID)
	}

	job, err := l.adapter.GetJob(ctx, bid.JobID)
	if err != nil {
		return models.Job{}, fmt.Errorf("mark bid %d completed: %w", bidID, err)
	}
	if job.Status != models.JobAccepted {
		return models.Job{}, fmt.Errorf("%w: cannot complete from %s", ErrInvalidTransition, job.Status)
	}

	if err = l.adapter.MarkBidCompleted(ctx, bidID); err != nil {
		return models.Job{}, fmt.Errorf("mark bid %d completed: %w", bidID, err)
	}

	confirmed, err := l.adapter.GetJob(ctx, bid.JobID)
	if err != nil {
		return models.Job{}, fmt.Errorf("confirm completion of job %d: %w", bid.JobID, err)
	}

	l.logger.Info().Int64("job", bid.JobID).Int64("bid", bidID).Msg("work marked completed")
	return confirmed, nil
}

// MarkDelivered reports one of the caller's completed jobs as received and
// returns the job in its terminal state.
func (l *Ledger) MarkDelivered(ctx context.Context, jobID int64) (models.Job, error) {
	identity, err := l.requireIdentity()
	if err != nil {
		return models.Job{}, err
	}

	job, err := l.adapter.GetJob(ctx, jobID)
	if err != nil {
		return models.Job{}, fmt.Errorf("mark job %d delivered: %w", jobID, err)
	}
	if !job.Owned(identity.ID) {
		return models.Job{}, ErrNotOwner
	}
	if job.Status != models.JobCompleted {
		return models.Job{}, fmt.Errorf("%w: cannot deliver from %s", ErrInvalidTransition, job.Status)
	}

	if err = l.adapter.MarkJobDelivered(ctx, jobID); err != nil {
		return models.Job{}, fmt.Errorf("mark job %d delivered: %w", jobID, err)
	}

	confirmed, err := l.adapter.GetJob(ctx, jobID)
	if err != nil {
		return models.Job{}, fmt.Errorf("confirm delivery of job %d: %w", jobID, err)
	}

	l.logger.Info().Int64("job", jobID).Msg("job delivered")
	return confirmed, nil
}
