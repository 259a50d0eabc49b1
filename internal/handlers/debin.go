package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"plata/internal/middleware"
	"plata/internal/models"
	"plata/internal/services/debin"
	"plata/internal/services/wallet"
	"plata/internal/utils"
)

type DebinHandler struct {
	debinService  debin.Service
	walletService wallet.Service
}

func NewDebinHandler(debinService debin.Service, walletService wallet.Service) *DebinHandler {
	return &DebinHandler{
		debinService:  debinService,
		walletService: walletService,
	}
}

// CreateRequest submits an external debit request against the caller's
// wallet. The request is returned PENDING; the confirmation worker
// settles it once the bank answers.
func (h *DebinHandler) CreateRequest(c *fiber.Ctx) error {
	var input struct {
		Amount             float64 `json:"amount"`
		Description        string  `json:"description"`
		ExternalWalletInfo string  `json:"external_wallet_info"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	claims, ok := middleware.Claims(c)
	if !ok {
		return utils.Unauthorized(c, "invalid claims")
	}
	w, err := h.walletService.GetWalletByUserID(c.Context(), claims.UserID)
	if err != nil {
		return walletError(c, err)
	}

	request, err := h.debinService.CreateDebinRequest(c.Context(), w.ID, debin.CreateDebinRequest{
		Amount:             input.Amount,
		Description:        input.Description,
		ExternalWalletInfo: input.ExternalWalletInfo,
	})
	if err != nil {
		return debinError(c, err)
	}
	return utils.Success(c, request)
}

// ConfirmRequest settles a pending debin request on the caller's
// wallet. ACCEPTED debits the wallet in the same atomic unit.
func (h *DebinHandler) ConfirmRequest(c *fiber.Ctx) error {
	walletID, err := uuid.Parse(c.Params("walletId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid wallet ID")
	}
	requestID, err := uuid.Parse(c.Params("requestId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid request ID")
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	claims, ok := middleware.Claims(c)
	if !ok {
		return utils.Unauthorized(c, "invalid claims")
	}
	w, err := h.walletService.GetWalletByUserID(c.Context(), claims.UserID)
	if err != nil {
		return walletError(c, err)
	}
	if w.ID != walletID {
		return utils.Forbidden(c, "wallet does not belong to caller")
	}

	request, err := h.debinService.GetRequest(c.Context(), requestID)
	if err != nil {
		return debinError(c, err)
	}
	if request.WalletID != walletID {
		return utils.NotFound(c, "debin request not found for wallet")
	}

	confirmed, err := h.debinService.ConfirmDebinRequest(c.Context(), requestID, models.DebinStatus(input.Status), "")
	if err != nil {
		return debinError(c, err)
	}
	return utils.Success(c, confirmed)
}

// ListRequests lists the caller's debin requests, newest first.
func (h *DebinHandler) ListRequests(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return utils.Unauthorized(c, "invalid claims")
	}
	w, err := h.walletService.GetWalletByUserID(c.Context(), claims.UserID)
	if err != nil {
		return walletError(c, err)
	}

	requests, err := h.debinService.ListByWallet(c.Context(), w.ID)
	if err != nil {
		return debinError(c, err)
	}
	return utils.Success(c, requests)
}

func debinError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, debin.ErrNotPending):
		return utils.Conflict(c, err.Error())
	case errors.Is(err, debin.ErrInvalidAmount),
		errors.Is(err, debin.ErrMissingExternalInfo),
		errors.Is(err, debin.ErrInvalidStatus):
		return utils.BadRequest(c, err.Error())
	}
	return walletError(c, err)
}
