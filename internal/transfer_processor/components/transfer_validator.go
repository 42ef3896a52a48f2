package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/odysseus-transfer-ledger/internal/domain/history"
	"github.com/odysseus-transfer-ledger/internal/domain/shared"
	"github.com/odysseus-transfer-ledger/internal/domain/transfer"
	"github.com/odysseus-transfer-ledger/internal/transfer_processor/service"
)

type TransferValidatorImpl struct {
	historyRepo history.Repository
	logger      *slog.Logger
}

func NewTransferValidator(historyRepo history.Repository, logger *slog.Logger) service.TransferValidator {
	return &TransferValidatorImpl{
		historyRepo: historyRepo,
		logger:      logger,
	}
}

// Validate checks the structural validity of a transfer request
func (v *TransferValidatorImpl) Validate(ctx context.Context, request *shared.TransferRequest) error {
	logger := v.logger
	if request.CorrelationID != "" {
		logger = v.logger.With("correlation_id", request.CorrelationID)
	}

	if request.Amount <= 0 {
		logger.Error("Invalid amount", "transfer_id", request.TransferID.String(), "amount", request.Amount)
		return fmt.Errorf("%w: %d", transfer.ErrInvalidAmount, request.Amount)
	}

	if !request.HasRecipient() {
		logger.Error("No recipient reference", "transfer_id", request.TransferID.String())
		return shared.ErrMissingRecipient
	}

	return nil
}

// CheckIdempotency reports whether the transfer already reached a terminal
// state, so a redelivered message never debits the account twice.
func (v *TransferValidatorImpl) CheckIdempotency(ctx context.Context, request *shared.TransferRequest) (bool, error) {
	logger := v.logger
	if request.CorrelationID != "" {
		logger = v.logger.With("correlation_id", request.CorrelationID)
	}

	existingEntry, err := v.historyRepo.GetByTransferID(ctx, request.TransferID)
	if err != nil && !errors.Is(err, history.ErrEntryNotFound{}) {
		logger.Error("Failed to check history for idempotency", "transfer_id", request.TransferID.String(), "error", err)
		return false, fmt.Errorf("idempotency check failed for transfer %s: %w", request.TransferID.String(), err)
	}

	if existingEntry != nil {
		if existingEntry.IsTerminal() {
			logger.Info("Transfer already processed (idempotency)", "transfer_id", request.TransferID.String(), "status", existingEntry.Status)
			return true, nil
		}
		logger.Info("Transfer found in history with non-terminal status, proceeding", "transfer_id", request.TransferID.String(), "status", existingEntry.Status)
	}

	return false, nil
}
