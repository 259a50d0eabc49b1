package wallet

import (
	"github.com/google/uuid"

	"plata/internal/models"
)

// CreateTransactionRequest describes one balance-affecting operation
// against the wallet identified in the service call.
type CreateTransactionRequest struct {
	Type        models.TransactionType
	Amount      float64
	Description string

	// ReceiverWalletID is required for P2P and forbidden otherwise.
	ReceiverWalletID *uuid.UUID

	// ExternalWalletInfo identifies the outside counterparty for
	// EXTERNAL_TOPUP and EXTERNAL_DEBIT.
	ExternalWalletInfo string

	// ExternalReference carries a provider transaction reference already
	// obtained by the caller (the debin confirmation path). When empty,
	// the service consults the gateway itself for external types.
	ExternalReference string
}
