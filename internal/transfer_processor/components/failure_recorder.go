package components

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/odysseus-transfer-ledger/internal/domain/history"
	"github.com/odysseus-transfer-ledger/internal/domain/shared"
	"github.com/odysseus-transfer-ledger/internal/transfer_processor/service"
)

type FailureRecorderImpl struct {
	historyRepo history.Repository
	logger      *slog.Logger
}

func NewFailureRecorder(historyRepo history.Repository, logger *slog.Logger) service.FailureRecorder {
	return &FailureRecorderImpl{
		historyRepo: historyRepo,
		logger:      logger,
	}
}

// RecordFailure records a failed transfer in the history store. Failed
// transfers get no receipt reference; the entry exists so the client's poll
// resolves with the failure reason instead of hanging on PENDING.
func (r *FailureRecorderImpl) RecordFailure(ctx context.Context, request *shared.TransferRequest, failureReason string) error {
	logger := r.logger
	if request.CorrelationID != "" {
		logger = r.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Recording failed transfer", "transfer_id", request.TransferID.String(), "reason", failureReason)

	now := time.Now()
	entry := &history.Entry{
		TransferID: request.TransferID,
		AccountID:  request.AccountID,
		Amount:     request.Amount,
		Currency:   request.Currency,
		Recipient: history.Party{
			ID:            request.RecipientID,
			Name:          request.RecipientName,
			AccountNumber: request.RecipientAccountNumber,
			PhoneNumber:   request.RecipientPhoneNumber,
			BankName:      request.BankName,
		},
		Note:           request.Note,
		IdempotencyKey: request.IdempotencyKey,
		CorrelationID:  request.CorrelationID,
		Status:         shared.TransferStatusFailed,
		FailureReason:  failureReason,
		CreatedAt:      request.Timestamp,
		CompletedAt:    &now,
	}

	existingEntry, err := r.historyRepo.GetByTransferID(ctx, request.TransferID)
	if err != nil && !errors.Is(err, history.ErrEntryNotFound{}) {
		logger.Error("Failed to get existing history entry for failed transfer", "transfer_id", request.TransferID.String(), "error", err)
	}

	if existingEntry != nil {
		if existingEntry.Status != shared.TransferStatusFailed {
			logger.Info("Updating existing history entry to FAILED", "transfer_id", request.TransferID.String())
			updateErr := r.historyRepo.UpdateStatus(ctx, request.TransferID, shared.TransferStatusFailed, failureReason)
			if updateErr != nil {
				logger.Error("Failed to update history entry to FAILED", "transfer_id", request.TransferID.String(), "error", updateErr)
				return updateErr
			}
			logger.Info("Successfully updated history entry to FAILED", "transfer_id", request.TransferID.String())
			return nil
		}
		logger.Info("History entry already marked as FAILED", "transfer_id", request.TransferID.String())
		return nil
	}

	logger.Info("Creating new FAILED history entry", "transfer_id", request.TransferID.String())
	createErr := r.historyRepo.Create(ctx, entry)
	if createErr != nil {
		logger.Error("Failed to create FAILED history entry", "transfer_id", request.TransferID.String(), "error", createErr)
		return createErr
	}
	logger.Info("Successfully created FAILED history entry", "transfer_id", request.TransferID.String())
	return nil
}
