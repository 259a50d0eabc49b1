package wallet

import (
	"context"

	"github.com/google/uuid"

	"plata/internal/models"
	"plata/internal/repositories"
)

// Service is the sole authority for mutating wallet balances and
// recording transactions. Every balance change and its transaction
// record commit in one atomic unit, or not at all.
type Service interface {
	CreateWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	GetWalletByUserID(ctx context.Context, userID uint) (*models.Wallet, error)
	GetWalletByID(ctx context.Context, walletID uuid.UUID) (*models.Wallet, error)

	CreateTransaction(ctx context.Context, walletID uuid.UUID, req CreateTransactionRequest) (*models.Transaction, error)
	GetTransactionsByWallet(ctx context.Context, walletID uuid.UUID) ([]models.Transaction, error)

	// ApplyExternalDebit debits a wallet and records the EXTERNAL_DEBIT
	// transaction against a repository already bound to an open database
	// transaction. It exists so the debin confirmation can include the
	// debit in the same atomic unit as the request's status flip.
	ApplyExternalDebit(r repositories.WalletRepository, walletID uuid.UUID, amount float64, description, externalWalletInfo, externalReference string) (*models.Transaction, error)
}
