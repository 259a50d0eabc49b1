// Package debin tracks external debit (DEBIN) requests. A request is
// created PENDING, handed to the confirmation worker, and settles
// exactly once as ACCEPTED or REJECTED. Accepting a request debits the
// wallet in the same atomic unit as the status flip.
package debin

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"plata/internal/models"
	"plata/internal/repositories"
	"plata/internal/services/wallet"
)

// CreateDebinRequest describes a new external debit request.
type CreateDebinRequest struct {
	Amount             float64
	Description        string
	ExternalWalletInfo string
}

// Enqueuer receives the IDs of freshly created PENDING requests. The
// worker implements it; tests substitute their own.
type Enqueuer interface {
	Enqueue(requestID uuid.UUID) bool
}

type Service interface {
	CreateDebinRequest(ctx context.Context, walletID uuid.UUID, req CreateDebinRequest) (*models.DebinRequest, error)
	// ConfirmDebinRequest settles a PENDING request. externalReference is
	// the provider's transaction reference and may be empty for REJECTED.
	ConfirmDebinRequest(ctx context.Context, requestID uuid.UUID, status models.DebinStatus, externalReference string) (*models.DebinRequest, error)
	GetRequest(ctx context.Context, requestID uuid.UUID) (*models.DebinRequest, error)
	ListByWallet(ctx context.Context, walletID uuid.UUID) ([]models.DebinRequest, error)
}

type service struct {
	repo      repositories.DebinRepository
	walletSvc wallet.Service
	queue     Enqueuer
}

// NewService creates the debin tracker. queue may be nil; requests are
// then left PENDING until confirmed explicitly.
func NewService(repo repositories.DebinRepository, walletSvc wallet.Service, queue Enqueuer) Service {
	if repo == nil {
		panic("repo is required")
	}
	if walletSvc == nil {
		panic("wallet service is required")
	}
	return &service{repo: repo, walletSvc: walletSvc, queue: queue}
}

func (s *service) CreateDebinRequest(ctx context.Context, walletID uuid.UUID, req CreateDebinRequest) (*models.DebinRequest, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if req.ExternalWalletInfo == "" {
		return nil, ErrMissingExternalInfo
	}
	if _, err := s.walletSvc.GetWalletByID(ctx, walletID); err != nil {
		return nil, err
	}

	request := &models.DebinRequest{
		WalletID:           walletID,
		Amount:             req.Amount,
		Description:        req.Description,
		ExternalWalletInfo: req.ExternalWalletInfo,
		Status:             models.DebinStatusPending,
	}
	if err := s.repo.Create(request); err != nil {
		return nil, err
	}

	log := logrus.WithFields(logrus.Fields{
		"debin_id":  request.ID,
		"wallet_id": walletID,
		"amount":    req.Amount,
	})
	if s.queue == nil || !s.queue.Enqueue(request.ID) {
		// The request stays PENDING and can still be confirmed through
		// the confirmation endpoint; nothing is lost.
		log.Warn("confirmation queue unavailable, debin request left pending")
	} else {
		log.Info("debin request created")
	}
	return request, nil
}

func (s *service) ConfirmDebinRequest(ctx context.Context, requestID uuid.UUID, status models.DebinStatus, externalReference string) (*models.DebinRequest, error) {
	if !status.Terminal() {
		return nil, ErrInvalidStatus
	}

	var confirmed *models.DebinRequest
	err := s.repo.ExecuteInTransaction(func(dr repositories.DebinRepository, wr repositories.WalletRepository) error {
		request, err := dr.GetByIDForUpdate(requestID)
		if err != nil {
			return err
		}
		if request.Status != models.DebinStatusPending {
			return ErrNotPending
		}

		if err := dr.UpdateStatus(requestID, status); err != nil {
			return err
		}
		if status == models.DebinStatusAccepted {
			_, err := s.walletSvc.ApplyExternalDebit(wr, request.WalletID, request.Amount,
				request.Description, request.ExternalWalletInfo, externalReference)
			if err != nil {
				return err
			}
		}

		request.Status = status
		confirmed = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"debin_id": requestID,
		"status":   status,
	}).Info("debin request settled")
	return confirmed, nil
}

func (s *service) GetRequest(ctx context.Context, requestID uuid.UUID) (*models.DebinRequest, error) {
	return s.repo.GetByID(requestID)
}

func (s *service) ListByWallet(ctx context.Context, walletID uuid.UUID) ([]models.DebinRequest, error) {
	return s.repo.ListByWallet(walletID)
}
