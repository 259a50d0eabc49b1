package wallet

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"plata/internal/models"
	"plata/internal/repositories"
	"plata/internal/services/gateway"
)

type service struct {
	repo repositories.WalletRepository
	gw   gateway.Gateway
}

// NewService creates a new wallet service.
func NewService(repo repositories.WalletRepository, gw gateway.Gateway) Service {
	if repo == nil {
		panic("repo is required")
	}
	if gw == nil {
		panic("gateway is required")
	}
	return &service{repo: repo, gw: gw}
}

func (s *service) CreateWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	wallet := &models.Wallet{UserID: userID}
	if err := s.repo.Create(wallet); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"wallet_id": wallet.ID,
		"user_id":   userID,
	}).Info("wallet created")
	return wallet, nil
}

func (s *service) GetWalletByUserID(ctx context.Context, userID uint) (*models.Wallet, error) {
	return s.repo.GetByUserID(userID)
}

func (s *service) GetWalletByID(ctx context.Context, walletID uuid.UUID) (*models.Wallet, error) {
	return s.repo.GetByID(walletID)
}

// CreateTransaction validates, settles with the external gateway when
// needed, and commits the balance change together with the transaction
// record. Validation failures happen before any write; a failed gateway
// call aborts with nothing persisted.
func (s *service) CreateTransaction(ctx context.Context, walletID uuid.UUID, req CreateTransactionRequest) (*models.Transaction, error) {
	if err := validateRequest(walletID, req); err != nil {
		return nil, err
	}

	wallet, err := s.repo.GetByID(walletID)
	if err != nil {
		return nil, err
	}

	// Fast-fail checks outside the lock; re-checked under it below.
	switch req.Type {
	case models.TransactionTypeP2P, models.TransactionTypeExternalDebit:
		if wallet.Balance < req.Amount {
			return nil, ErrInsufficientFunds
		}
	}

	if req.Type == models.TransactionTypeP2P {
		if _, err := s.repo.GetByID(*req.ReceiverWalletID); err != nil {
			return nil, err
		}
	}

	externalRef := req.ExternalReference
	if externalRef == "" {
		switch req.Type {
		case models.TransactionTypeExternalTopup:
			externalRef, err = s.gw.RequestTopUp(ctx, req.Amount, req.ExternalWalletInfo)
		case models.TransactionTypeExternalDebit:
			externalRef, err = s.gw.RequestDebit(ctx, req.Amount, req.ExternalWalletInfo)
		}
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"wallet_id": walletID,
				"type":      req.Type,
				"amount":    req.Amount,
			}).Warn("external gateway refused transaction")
			return nil, fmt.Errorf("gateway call failed: %w", err)
		}
	}

	var txn *models.Transaction
	err = s.repo.ExecuteInTransaction(func(r repositories.WalletRepository) error {
		switch req.Type {
		case models.TransactionTypeP2P:
			txn, err = applyP2P(r, walletID, *req.ReceiverWalletID, req.Amount, req.Description)
		case models.TransactionTypeExternalTopup:
			txn, err = applyTopUp(r, walletID, req.Amount, req.Description, req.ExternalWalletInfo, externalRef)
		case models.TransactionTypeExternalDebit:
			txn, err = s.ApplyExternalDebit(r, walletID, req.Amount, req.Description, req.ExternalWalletInfo, externalRef)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"transaction_id": txn.ID,
		"wallet_id":      walletID,
		"type":           req.Type,
		"amount":         req.Amount,
	}).Info("transaction committed")
	return txn, nil
}

func (s *service) GetTransactionsByWallet(ctx context.Context, walletID uuid.UUID) ([]models.Transaction, error) {
	if _, err := s.repo.GetByID(walletID); err != nil {
		return nil, err
	}
	return s.repo.GetTransactionsByWallet(ctx, walletID)
}

func (s *service) ApplyExternalDebit(r repositories.WalletRepository, walletID uuid.UUID, amount float64, description, externalWalletInfo, externalReference string) (*models.Transaction, error) {
	wallet, err := r.GetByIDForUpdate(walletID)
	if err != nil {
		return nil, err
	}
	if wallet.Balance < amount {
		return nil, ErrInsufficientFunds
	}
	if err := r.UpdateBalance(walletID, wallet.Balance-amount); err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		Type:               models.TransactionTypeExternalDebit,
		Amount:             amount,
		Description:        description,
		SenderWalletID:     &walletID,
		ExternalWalletInfo: externalWalletInfo,
		ExternalReference:  externalReference,
	}
	if err := r.CreateTransaction(txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// applyP2P moves the amount between both wallets inside the caller's
// transaction. Rows are locked in lexicographic ID order so two
// opposing transfers cannot deadlock.
func applyP2P(r repositories.WalletRepository, senderID, receiverID uuid.UUID, amount float64, description string) (*models.Transaction, error) {
	first, second := senderID, receiverID
	if strings.Compare(receiverID.String(), senderID.String()) < 0 {
		first, second = receiverID, senderID
	}

	locked := make(map[uuid.UUID]*models.Wallet, 2)
	for _, id := range []uuid.UUID{first, second} {
		w, err := r.GetByIDForUpdate(id)
		if err != nil {
			return nil, err
		}
		locked[id] = w
	}

	sender, receiver := locked[senderID], locked[receiverID]
	if sender.Balance < amount {
		return nil, ErrInsufficientFunds
	}
	if err := r.UpdateBalance(senderID, sender.Balance-amount); err != nil {
		return nil, err
	}
	if err := r.UpdateBalance(receiverID, receiver.Balance+amount); err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		Type:             models.TransactionTypeP2P,
		Amount:           amount,
		Description:      description,
		SenderWalletID:   &senderID,
		ReceiverWalletID: &receiverID,
	}
	if err := r.CreateTransaction(txn); err != nil {
		return nil, err
	}
	return txn, nil
}

func applyTopUp(r repositories.WalletRepository, walletID uuid.UUID, amount float64, description, externalWalletInfo, externalReference string) (*models.Transaction, error) {
	wallet, err := r.GetByIDForUpdate(walletID)
	if err != nil {
		return nil, err
	}
	if err := r.UpdateBalance(walletID, wallet.Balance+amount); err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		Type:               models.TransactionTypeExternalTopup,
		Amount:             amount,
		Description:        description,
		ReceiverWalletID:   &walletID,
		ExternalWalletInfo: externalWalletInfo,
		ExternalReference:  externalReference,
	}
	if err := r.CreateTransaction(txn); err != nil {
		return nil, err
	}
	return txn, nil
}

func validateRequest(walletID uuid.UUID, req CreateTransactionRequest) error {
	if !req.Type.Valid() {
		return ErrInvalidType
	}
	if req.Amount <= 0 {
		return ErrInvalidAmount
	}

	switch req.Type {
	case models.TransactionTypeP2P:
		if req.ReceiverWalletID == nil {
			return ErrMissingReceiver
		}
		if *req.ReceiverWalletID == walletID {
			return ErrSelfTransfer
		}
	case models.TransactionTypeExternalTopup, models.TransactionTypeExternalDebit:
		if req.ExternalWalletInfo == "" {
			return ErrMissingExternalInfo
		}
	}
	return nil
}
