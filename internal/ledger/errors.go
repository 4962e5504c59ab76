package ledger

import "errors"

var (
	// ErrNotOwner indicates the caller tried an owner-only operation on a
	// job posted by somebody else.
	ErrNotOwner = errors.New("not the job owner")

	// ErrNotBidder indicates the caller tried a bidder-only operation on a
	// bid placed by somebody else.
	ErrNotBidder = errors.New("not the bid owner")

	// ErrOwnJob indicates the caller tried to bid on their own job.
	ErrOwnJob = errors.New("cannot bid on own job")

	// ErrNotEditable indicates the job has left the posted state and can no
	// longer be edited or deleted.
	ErrNotEditable = errors.New("job is no longer editable")

	// ErrNotAcceptingBids indicates the job has left the posted state and no
	// longer takes new bids.
	ErrNotAcceptingBids = errors.New("job is not accepting bids")

	// ErrInvalidTransition indicates a lifecycle operation was attempted
	// from the wrong state, e.g. marking an unaccepted job delivered.
	ErrInvalidTransition = errors.New("invalid job state transition")

	// ErrDuplicateBid indicates the caller already holds a bid on the job.
	ErrDuplicateBid = errors.New("bid already placed on this job")

	// ErrAlreadyAccepted indicates the job already carries an accepted bid.
	ErrAlreadyAccepted = errors.New("job already has an accepted bid")

	// ErrBidAccepted indicates the bid was accepted and can no longer be
	// withdrawn.
	ErrBidAccepted = errors.New("accepted bid cannot be withdrawn")

	// ErrMissingField indicates a required field of a job or bid submission
	// was left empty.
	ErrMissingField = errors.New("missing required field")

	// ErrPastDeadline indicates the job deadline is earlier than today.
	ErrPastDeadline = errors.New("deadline is in the past")
)
