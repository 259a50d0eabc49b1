package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"plata/internal/middleware"
	"plata/internal/models"
	"plata/internal/repositories"
	"plata/internal/services/auth"
	"plata/internal/services/gateway"
	"plata/internal/services/wallet"
	"plata/internal/utils"
)

type WalletHandler struct {
	walletService wallet.Service
	authService   auth.Service
}

func NewWalletHandler(walletService wallet.Service, authService auth.Service) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		authService:   authService,
	}
}

// callerWallet resolves the authenticated user's wallet.
func (h *WalletHandler) callerWallet(c *fiber.Ctx) (*models.Wallet, error) {
	claims, ok := middleware.Claims(c)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}
	return h.walletService.GetWalletByUserID(c.Context(), claims.UserID)
}

// GetWallet returns the caller's wallet.
func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	w, err := h.callerWallet(c)
	if err != nil {
		return walletError(c, err)
	}
	return utils.Success(c, w)
}

// GetTransactions lists the caller's transactions, newest first.
func (h *WalletHandler) GetTransactions(c *fiber.Ctx) error {
	w, err := h.callerWallet(c)
	if err != nil {
		return walletError(c, err)
	}

	txs, err := h.walletService.GetTransactionsByWallet(c.Context(), w.ID)
	if err != nil {
		return walletError(c, err)
	}
	return utils.Success(c, txs)
}

// CreateP2P transfers funds from the caller's wallet to another wallet,
// addressed by wallet id or by username.
func (h *WalletHandler) CreateP2P(c *fiber.Ctx) error {
	var input struct {
		ReceiverWalletID string  `json:"receiver_wallet_id"`
		ReceiverUsername string  `json:"receiver_username"`
		Amount           float64 `json:"amount"`
		Description      string  `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	w, err := h.callerWallet(c)
	if err != nil {
		return walletError(c, err)
	}

	receiverID, err := h.resolveReceiver(c, input.ReceiverWalletID, input.ReceiverUsername)
	if err != nil {
		return walletError(c, err)
	}

	txn, err := h.walletService.CreateTransaction(c.Context(), w.ID, wallet.CreateTransactionRequest{
		Type:             models.TransactionTypeP2P,
		Amount:           input.Amount,
		Description:      input.Description,
		ReceiverWalletID: receiverID,
	})
	if err != nil {
		return walletError(c, err)
	}
	return utils.Success(c, txn)
}

// CreateTopUp credits the caller's wallet from an external source.
func (h *WalletHandler) CreateTopUp(c *fiber.Ctx) error {
	var input struct {
		Amount             float64 `json:"amount"`
		Description        string  `json:"description"`
		ExternalWalletInfo string  `json:"external_wallet_info"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	w, err := h.callerWallet(c)
	if err != nil {
		return walletError(c, err)
	}

	txn, err := h.walletService.CreateTransaction(c.Context(), w.ID, wallet.CreateTransactionRequest{
		Type:               models.TransactionTypeExternalTopup,
		Amount:             input.Amount,
		Description:        input.Description,
		ExternalWalletInfo: input.ExternalWalletInfo,
	})
	if err != nil {
		return walletError(c, err)
	}
	return utils.Success(c, txn)
}

// GetWalletOwner resolves a wallet id to its owner's public user data,
// so senders can verify who they are about to pay.
func (h *WalletHandler) GetWalletOwner(c *fiber.Ctx) error {
	walletID, err := uuid.Parse(c.Params("walletId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid wallet ID")
	}

	w, err := h.walletService.GetWalletByID(c.Context(), walletID)
	if err != nil {
		return walletError(c, err)
	}

	user, err := h.authService.GetUserByID(w.UserID)
	if err != nil {
		return walletError(c, err)
	}
	return utils.Success(c, user.Public())
}

func (h *WalletHandler) resolveReceiver(c *fiber.Ctx, walletID, username string) (*uuid.UUID, error) {
	if walletID != "" {
		id, err := uuid.Parse(walletID)
		if err != nil {
			return nil, wallet.ErrMissingReceiver
		}
		return &id, nil
	}
	if username == "" {
		return nil, wallet.ErrMissingReceiver
	}

	user, err := h.authService.GetUserByUsername(username)
	if err != nil {
		return nil, err
	}
	receiver, err := h.walletService.GetWalletByUserID(c.Context(), user.ID)
	if err != nil {
		return nil, err
	}
	id := receiver.ID
	return &id, nil
}

// walletError maps service and repository errors onto HTTP statuses.
func walletError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, fiber.ErrUnauthorized):
		return utils.Unauthorized(c, "invalid claims")
	case errors.Is(err, repositories.ErrWalletNotFound),
		errors.Is(err, repositories.ErrUserNotFound),
		errors.Is(err, repositories.ErrTransactionNotFound),
		errors.Is(err, repositories.ErrDebinNotFound):
		return utils.NotFound(c, err.Error())
	case errors.Is(err, wallet.ErrInvalidType),
		errors.Is(err, wallet.ErrInvalidAmount),
		errors.Is(err, wallet.ErrInsufficientFunds),
		errors.Is(err, wallet.ErrSelfTransfer),
		errors.Is(err, wallet.ErrMissingReceiver),
		errors.Is(err, wallet.ErrMissingExternalInfo):
		return utils.BadRequest(c, err.Error())
	case errors.Is(err, gateway.ErrRejected),
		errors.Is(err, gateway.ErrUnavailable):
		return utils.BadGateway(c, err.Error())
	}
	return utils.InternalError(c, "Unexpected error")
}
