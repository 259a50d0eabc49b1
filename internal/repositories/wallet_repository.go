package repositories

import (
	"context"
	"errors"

	"plata/internal/models"

	"github.com/google/uuid"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrDuplicateWallet     = errors.New("wallet already exists for user")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// WalletRepository defines wallet and transaction persistence.
//
// The *ForUpdate variants take a row-level lock and are only meaningful
// inside ExecuteInTransaction; concurrent balance mutations against the
// same wallet serialize on that lock.
type WalletRepository interface {
	Create(wallet *models.Wallet) error
	GetByID(id uuid.UUID) (*models.Wallet, error)
	GetByIDForUpdate(id uuid.UUID) (*models.Wallet, error)
	GetByUserID(userID uint) (*models.Wallet, error)
	UpdateBalance(walletID uuid.UUID, newBalance float64) error

	CreateTransaction(tx *models.Transaction) error
	GetTransactionByID(id uuid.UUID) (*models.Transaction, error)
	// GetTransactionsByWallet returns every transaction where the wallet
	// is sender or receiver, newest first.
	GetTransactionsByWallet(ctx context.Context, walletID uuid.UUID) ([]models.Transaction, error)

	// ExecuteInTransaction runs fn inside one database transaction; the
	// repository passed to fn is bound to that transaction.
	ExecuteInTransaction(fn func(WalletRepository) error) error
}
