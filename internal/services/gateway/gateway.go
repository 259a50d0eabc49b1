// Package gateway talks to the external payment provider that settles
// top-ups and DEBIN debits against outside bank accounts.
package gateway

import (
	"context"
	"errors"
)

var (
	// ErrRejected means the provider processed the request and said no.
	ErrRejected = errors.New("payment rejected by external gateway")
	// ErrUnavailable means the provider could not be reached or answered
	// with a transport-level failure; the outcome is unknown and the
	// caller must not commit any local state.
	ErrUnavailable = errors.New("external gateway unavailable")
)

// Gateway is the external bank collaborator. Both calls block until the
// provider answers and return an opaque external transaction reference
// on success.
type Gateway interface {
	RequestTopUp(ctx context.Context, amount float64, externalWalletInfo string) (string, error)
	RequestDebit(ctx context.Context, amount float64, externalWalletInfo string) (string, error)
}
