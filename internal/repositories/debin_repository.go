package repositories

import (
	"errors"

	"plata/internal/models"

	"github.com/google/uuid"
)

var ErrDebinNotFound = errors.New("debin request not found")

// DebinRepository persists external debit requests and their lifecycle.
type DebinRepository interface {
	Create(req *models.DebinRequest) error
	GetByID(id uuid.UUID) (*models.DebinRequest, error)
	GetByIDForUpdate(id uuid.UUID) (*models.DebinRequest, error)
	UpdateStatus(id uuid.UUID, status models.DebinStatus) error
	ListByWallet(walletID uuid.UUID) ([]models.DebinRequest, error)

	// ExecuteInTransaction runs fn inside one database transaction. The
	// wallet repository shares the same transaction so a status flip and
	// the resulting debit commit or roll back together.
	ExecuteInTransaction(fn func(DebinRepository, WalletRepository) error) error
}
