package wallet

import "errors"

// Validation failures detected before any persistence write.
var (
	ErrInvalidType         = errors.New("unknown transaction type")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrSelfTransfer        = errors.New("cannot transfer to own wallet")
	ErrMissingReceiver     = errors.New("receiver wallet is required for P2P transactions")
	ErrMissingExternalInfo = errors.New("external wallet info is required for external transactions")
)
