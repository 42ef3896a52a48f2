package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/odysseus-transfer-ledger/internal/api_gateway/service"
	"github.com/odysseus-transfer-ledger/internal/domain/account"
)

// AccountHandler handles HTTP requests for account operations
type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accountService service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// Create handles creation of a new account, validating the request and checking for duplicate account numbers
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	limits := account.Limits{
		Daily:          req.DailyLimit,
		Monthly:        req.MonthlyLimit,
		PerTransaction: req.PerTransactionLimit,
	}

	acc, err := h.accountService.CreateAccount(c.Request.Context(), req.OwnerName, req.AccountNumber, req.PhoneNumber, req.InitialBalance, req.Currency, limits)
	if err != nil {
		var duplicateErr account.ErrDuplicateAccountNumber
		if errors.As(err, &duplicateErr) {
			h.logger.Warn("Attempt to create account with duplicate number", "account_number", duplicateErr.AccountNumber)
			RespondBadRequest(c, "Account with this account number already exists")
			return
		}
		if errors.Is(err, account.ErrInvalidLimits) {
			RespondBadRequest(c, "Invalid limits: all limits must be positive")
			return
		}
		h.logger.Error("Failed to create account", "error", err)
		RespondInternalError(c)
		return
	}

	response := mapAccountToResponse(acc)
	RespondCreated(c, response)
}

// GetByID retrieves an account by its ID, returning 404 if not found
func (h *AccountHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid account ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	acc, err := h.accountService.GetAccountByID(c.Request.Context(), id)
	if err != nil {
		var accNotFound account.ErrAccountNotFound
		if errors.As(err, &accNotFound) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to get account", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	response := mapAccountToResponse(acc)
	RespondOK(c, response)
}

// GetLimits reports the account's transfer limits with usage projected to the
// current daily and monthly window, returning 404 if the account is unknown
func (h *AccountHandler) GetLimits(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid account ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	_, ledger, err := h.accountService.GetAccountLimits(c.Request.Context(), id, time.Now())
	if err != nil {
		var accNotFound account.ErrAccountNotFound
		if errors.As(err, &accNotFound) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to get account limits", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, AccountLimitsResponse{
		DailyLimit:          ledger.DailyLimit,
		DailyUsed:           ledger.DailyUsed,
		DailyRemaining:      ledger.DailyRemaining(),
		MonthlyLimit:        ledger.MonthlyLimit,
		MonthlyUsed:         ledger.MonthlyUsed,
		MonthlyRemaining:    ledger.MonthlyRemaining(),
		PerTransactionLimit: ledger.PerTransactionLimit,
	})
}

// mapAccountToResponse maps an account entity to an account response DTO
func mapAccountToResponse(acc *account.Account) AccountResponse {
	return AccountResponse{
		ID:            acc.ID.String(),
		OwnerName:     acc.OwnerName,
		AccountNumber: acc.AccountNumber,
		PhoneNumber:   acc.PhoneNumber,
		Balance:       acc.Balance,
		Currency:      acc.Currency,
		CreatedAt:     acc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     acc.UpdatedAt.Format(time.RFC3339),
	}
}
