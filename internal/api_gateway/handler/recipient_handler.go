package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/odysseus-transfer-ledger/internal/api_gateway/service"
	"github.com/odysseus-transfer-ledger/internal/domain/recipient"
)

// RecipientHandler handles HTTP requests for saved recipient operations
type RecipientHandler struct {
	recipientService service.RecipientService
	logger           *slog.Logger
}

// NewRecipientHandler creates a new recipient handler
func NewRecipientHandler(logger *slog.Logger, recipientService service.RecipientService) *RecipientHandler {
	return &RecipientHandler{
		recipientService: recipientService,
		logger:           logger,
	}
}

// List returns saved recipients, most recently transferred-to first
func (h *RecipientHandler) List(c *gin.Context) {
	recipients, err := h.recipientService.ListRecipients(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list recipients", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]RecipientResponse, 0, len(recipients))
	for _, rec := range recipients {
		responses = append(responses, mapRecipientToResponse(rec))
	}

	RespondOK(c, responses)
}

// Create saves a new transfer recipient. The recipient must carry an account
// number or a phone number so a transfer can reach it.
func (h *RecipientHandler) Create(c *gin.Context) {
	var req SaveRecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	rec, err := h.recipientService.SaveRecipient(c.Request.Context(), req.Name, req.AccountNumber, req.PhoneNumber, req.BankName)
	if err != nil {
		if errors.Is(err, recipient.ErrUnreachableRecipient) {
			RespondBadRequest(c, "An account number or phone number is required")
			return
		}
		h.logger.Error("Failed to save recipient", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapRecipientToResponse(rec))
}

// SetFavorite marks a saved recipient as favorite, or clears the flag when
// the body says is_favorite false. Returns the updated recipient.
func (h *RecipientHandler) SetFavorite(c *gin.Context) {
	var req FavoriteRecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		RespondBadRequest(c, "Invalid recipient ID")
		return
	}

	favorite := true
	if req.IsFavorite != nil {
		favorite = *req.IsFavorite
	}

	rec, err := h.recipientService.SetFavorite(c.Request.Context(), recipientID, favorite)
	if err != nil {
		var notFound recipient.ErrRecipientNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Recipient not found")
			return
		}
		h.logger.Error("Failed to set recipient favorite", "recipient_id", req.RecipientID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapRecipientToResponse(rec))
}

// Lookup resolves a recipient by account number or phone number, supplied as
// query parameters. Account number wins when both are present.
func (h *RecipientHandler) Lookup(c *gin.Context) {
	accountNumber := c.Query("account_number")
	phoneNumber := c.Query("phone_number")

	rec, err := h.recipientService.LookupRecipient(c.Request.Context(), accountNumber, phoneNumber)
	if err != nil {
		if errors.Is(err, recipient.ErrMissingLookupKey) {
			RespondBadRequest(c, "An account number or phone number is required")
			return
		}
		var notFound recipient.ErrRecipientNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "No account found with the provided details")
			return
		}
		h.logger.Error("Failed to look up recipient", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapRecipientToResponse(rec))
}

// mapRecipientToResponse maps a recipient entity to a response DTO
func mapRecipientToResponse(rec *recipient.Recipient) RecipientResponse {
	response := RecipientResponse{
		ID:            rec.ID.String(),
		Name:          rec.Name,
		AccountNumber: rec.AccountNumber,
		PhoneNumber:   rec.PhoneNumber,
		BankName:      rec.BankName,
		IsFavorite:    rec.IsFavorite,
	}
	if rec.LastTransferAt != nil {
		response.LastTransferAt = rec.LastTransferAt.Format(time.RFC3339)
	}
	return response
}
