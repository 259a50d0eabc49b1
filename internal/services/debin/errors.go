package debin

import "errors"

var (
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrMissingExternalInfo = errors.New("external wallet info is required")
	ErrInvalidStatus       = errors.New("confirmation status must be ACCEPTED or REJECTED")
	// ErrNotPending guards the single PENDING -> terminal transition;
	// confirming an already-settled request is a conflict, not a retry.
	ErrNotPending = errors.New("debin request is not pending")
)
