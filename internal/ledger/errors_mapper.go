package ledger

import (
	"errors"
	"fmt"

	"github.com/ashvale/go-craft-market/internal/adapter"
)

// mapSubmitBidError translates transport errors from bid creation into the
// package's sentinels. The backend reports a second bid on the same job as
// a validation failure.
func mapSubmitBidError(err error) error {
	if errors.Is(err, adapter.ErrBadRequest) {
		return fmt.Errorf("%w: %v", ErrDuplicateBid, err)
	}
	return err
}

// mapAcceptBidError translates transport errors from bid acceptance. The
// backend rejects a second acceptance atomically, so a lost race between
// two clients surfaces here as ErrAlreadyAccepted.
func mapAcceptBidError(err error) error {
	if errors.Is(err, adapter.ErrBadRequest) || errors.Is(err, adapter.ErrConflict) {
		return fmt.Errorf("%w: %v", ErrAlreadyAccepted, err)
	}
	return err
}
