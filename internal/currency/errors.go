package currency

import "errors"

var (
	// ErrOutOfRange indicates a display amount with a negative component or
	// a silver/copper component above 99.
	ErrOutOfRange = errors.New("money components out of range")

	// ErrNegative indicates a negative canonical copper amount.
	ErrNegative = errors.New("negative copper units")
)
