package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/odysseus-transfer-ledger/internal/api_gateway/middleware"
	"github.com/odysseus-transfer-ledger/internal/api_gateway/service"
	"github.com/odysseus-transfer-ledger/internal/domain/account"
	"github.com/odysseus-transfer-ledger/internal/domain/history"
	"github.com/odysseus-transfer-ledger/internal/domain/shared"
	"github.com/odysseus-transfer-ledger/internal/domain/transfer"
)

// TransferHandler handles HTTP requests for transfer operations
type TransferHandler struct {
	transferService   service.TransferService
	validationService service.ValidationService
	logger            *slog.Logger
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(logger *slog.Logger, transferService service.TransferService, validationService service.ValidationService) *TransferHandler {
	return &TransferHandler{
		transferService:   transferService,
		validationService: validationService,
		logger:            logger,
	}
}

// Validate runs the pre-submission checks for a proposed transfer and returns
// the verdict without reserving funds or queueing anything. A failing verdict
// is still a 200: the errors live in the verdict, not the transport.
func (h *TransferHandler) Validate(c *gin.Context) {
	req, accountID, ok := h.bindTransferBody(c)
	if !ok {
		return
	}

	verdict, err := h.validationService.ValidateTransfer(c.Request.Context(), accountID, transfer.Request{
		Amount:                 req.Amount,
		RecipientID:            req.RecipientID,
		RecipientAccountNumber: req.RecipientAccountNumber,
		RecipientPhoneNumber:   req.RecipientPhoneNumber,
		Note:                   req.Note,
	})
	if err != nil {
		var accNotFound account.ErrAccountNotFound
		if errors.As(err, &accNotFound) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to validate transfer", "account_id", req.AccountID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, verdict)
}

// Create queues a new transfer for execution with idempotency support.
// Returns 202 with the transfer ID; the client polls GET /transfers/:id for
// the outcome. A repeated idempotency key returns the original entry instead.
func (h *TransferHandler) Create(c *gin.Context) {
	req, accountID, ok := h.bindTransferBody(c)
	if !ok {
		return
	}

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.New().String()
	}

	transferRequest := &shared.TransferRequest{
		TransferID:             uuid.New(),
		AccountID:              accountID,
		Amount:                 req.Amount,
		Currency:               req.Currency,
		RecipientID:            req.RecipientID,
		RecipientAccountNumber: req.RecipientAccountNumber,
		RecipientPhoneNumber:   req.RecipientPhoneNumber,
		RecipientName:          req.RecipientName,
		BankName:               req.BankName,
		Note:                   req.Note,
		IdempotencyKey:         req.IdempotencyKey,
		CorrelationID:          middleware.GetCorrelationID(c),
		Timestamp:              time.Now(),
	}

	transferID, existingEntry, err := h.transferService.CreateTransfer(c.Request.Context(), transferRequest)
	if err != nil {
		h.logger.Error("Failed to create transfer", "error", err)
		RespondInternalError(c)
		return
	}
	if existingEntry != nil {
		RespondOK(c, mapHistoryEntryToResponse(existingEntry))
		return
	}

	RespondAccepted(c, gin.H{
		"transfer_id": transferID,
		"status":      string(shared.TransferStatusPending),
	})
}

// GetByID retrieves transfer details by its ID, returns 404 if not found
func (h *TransferHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid transfer ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid transfer ID")
		return
	}

	entry, err := h.transferService.GetTransferByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get transfer", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	if entry == nil {
		RespondNotFound(c, "Transfer not found")
		return
	}

	RespondOK(c, mapHistoryEntryToResponse(entry))
}

// GetByAccountID retrieves paginated transfer history for an account,
// newest first
func (h *TransferHandler) GetByAccountID(c *gin.Context) {
	accountIDParam := c.Param("id")
	accountID, err := uuid.Parse(accountIDParam)
	if err != nil {
		h.logger.Error("Invalid account ID", "account_id", accountIDParam, "error", err)
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	entries, total, err := h.transferService.GetTransfersByAccountID(
		c.Request.Context(),
		accountID,
		pagination.Page,
		pagination.PerPage,
	)
	if err != nil {
		h.logger.Error("Failed to get transfers", "account_id", accountIDParam, "error", err)
		RespondInternalError(c)
		return
	}

	var transfers []TransferResponse
	for _, entry := range entries {
		transfers = append(transfers, mapHistoryEntryToResponse(entry))
	}

	RespondWithPaginatedData(c, http.StatusOK, transfers, pagination.Page, pagination.PerPage, int(total))
}

// bindTransferBody parses and checks the shared validate/submit payload.
// A missing recipient reference is rejected here, before anything is queued.
func (h *TransferHandler) bindTransferBody(c *gin.Context) (TransferRequestBody, uuid.UUID, bool) {
	var req TransferRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return req, uuid.Nil, false
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		h.logger.Error("Invalid account ID", "account_id", req.AccountID, "error", err)
		RespondBadRequest(c, "Invalid account ID")
		return req, uuid.Nil, false
	}

	if req.RecipientID == "" && req.RecipientAccountNumber == "" && req.RecipientPhoneNumber == "" {
		RespondBadRequest(c, "A recipient id, account number, or phone number is required")
		return req, uuid.Nil, false
	}

	return req, accountID, true
}

// mapHistoryEntryToResponse maps a history entry to a transfer response DTO
func mapHistoryEntryToResponse(entry *history.Entry) TransferResponse {
	response := TransferResponse{
		TransferID: entry.TransferID.String(),
		AccountID:  entry.AccountID.String(),
		Amount:     entry.Amount,
		Currency:   entry.Currency,
		Recipient: PartyResponse{
			ID:            entry.Recipient.ID,
			Name:          entry.Recipient.Name,
			AccountNumber: entry.Recipient.AccountNumber,
			PhoneNumber:   entry.Recipient.PhoneNumber,
			BankName:      entry.Recipient.BankName,
		},
		Note:          entry.Note,
		Reference:     entry.Reference,
		Status:        string(entry.Status),
		FailureReason: entry.FailureReason,
		CreatedAt:     entry.CreatedAt.Format(time.RFC3339),
	}

	if entry.Sender.ID != "" || entry.Sender.AccountNumber != "" {
		response.Sender = &PartyResponse{
			ID:            entry.Sender.ID,
			Name:          entry.Sender.Name,
			AccountNumber: entry.Sender.AccountNumber,
		}
	}

	if entry.CompletedAt != nil {
		response.CompletedAt = entry.CompletedAt.Format(time.RFC3339)
	}

	return response
}
