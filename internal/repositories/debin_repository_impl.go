package repositories

import (
	"errors"
	"fmt"

	"plata/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type debinRepository struct {
	db *gorm.DB
}

func NewDebinRepository(db *gorm.DB) DebinRepository {
	return &debinRepository{db: db}
}

func (r *debinRepository) Create(req *models.DebinRequest) error {
	if err := r.db.Create(req).Error; err != nil {
		return fmt.Errorf("failed to create debin request: %w", err)
	}
	return nil
}

func (r *debinRepository) GetByID(id uuid.UUID) (*models.DebinRequest, error) {
	var req models.DebinRequest
	if err := r.db.Where("id = ?", id).First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDebinNotFound
		}
		return nil, fmt.Errorf("failed to get debin request: %w", err)
	}
	return &req, nil
}

func (r *debinRepository) GetByIDForUpdate(id uuid.UUID) (*models.DebinRequest, error) {
	var req models.DebinRequest
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDebinNotFound
		}
		return nil, fmt.Errorf("failed to lock debin request: %w", err)
	}
	return &req, nil
}

func (r *debinRepository) UpdateStatus(id uuid.UUID, status models.DebinStatus) error {
	result := r.db.Model(&models.DebinRequest{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update debin status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrDebinNotFound
	}
	return nil
}

func (r *debinRepository) ListByWallet(walletID uuid.UUID) ([]models.DebinRequest, error) {
	var reqs []models.DebinRequest
	err := r.db.Where("wallet_id = ?", walletID).
		Order("created_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list debin requests: %w", err)
	}
	return reqs, nil
}

func (r *debinRepository) ExecuteInTransaction(fn func(DebinRepository, WalletRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&debinRepository{db: tx}, &walletRepository{db: tx})
	})
}
