package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/odysseus-transfer-ledger/internal/domain/history"
	"github.com/odysseus-transfer-ledger/internal/domain/shared"
	"github.com/odysseus-transfer-ledger/internal/platform/messaging/producers"
)

// TransferServiceImpl implements the TransferService interface
type TransferServiceImpl struct {
	historyRepo history.Repository
	producer    producers.MessagePublisher
	logger      *slog.Logger
}

// NewTransferService creates a new transfer service
func NewTransferService(logger *slog.Logger, historyRepo history.Repository, producer producers.MessagePublisher) TransferService {
	return &TransferServiceImpl{
		historyRepo: historyRepo,
		producer:    producer,
		logger:      logger,
	}
}

// CreateTransfer queues a new transfer, supporting idempotency via idempotencyKey.
// Returns transfer ID, existing history entry (if found via idempotencyKey), and any error.
// A PENDING entry is staged before publishing so a resubmission with the same
// key hits the idempotency lookup while the first request is still in flight,
// and so GET /transfers/:id resolves during the processing window. The message
// is keyed by account ID so transfers from one account execute in order.
func (s *TransferServiceImpl) CreateTransfer(ctx context.Context, transferRequest *shared.TransferRequest) (string, *history.Entry, error) {
	idempotencyKey := transferRequest.IdempotencyKey

	if idempotencyKey != "" {
		existingEntry, err := s.historyRepo.GetByIdempotencyKey(ctx, idempotencyKey)
		if err != nil {
			s.logger.Error("Failed to check for existing transfer with idempotency key",
				"idempotency_key", idempotencyKey,
				"error", err,
			)
			return "", nil, err
		}

		if existingEntry != nil {
			s.logger.Info("Found existing transfer with idempotency key",
				"idempotency_key", idempotencyKey,
				"transfer_id", existingEntry.TransferID,
				"status", string(existingEntry.Status),
			)
			return existingEntry.TransferID.String(), existingEntry, nil
		}
	}

	// The sender snapshot is filled in by the processor at execution time.
	pendingEntry := &history.Entry{
		TransferID: transferRequest.TransferID,
		AccountID:  transferRequest.AccountID,
		Amount:     transferRequest.Amount,
		Currency:   transferRequest.Currency,
		Recipient: history.Party{
			ID:            transferRequest.RecipientID,
			Name:          transferRequest.RecipientName,
			AccountNumber: transferRequest.RecipientAccountNumber,
			PhoneNumber:   transferRequest.RecipientPhoneNumber,
			BankName:      transferRequest.BankName,
		},
		Note:           transferRequest.Note,
		Reference:      history.NewReference(transferRequest.TransferID, transferRequest.Timestamp),
		IdempotencyKey: idempotencyKey,
		CorrelationID:  transferRequest.CorrelationID,
		Status:         shared.TransferStatusPending,
		CreatedAt:      transferRequest.Timestamp,
	}
	if err := s.historyRepo.Create(ctx, pendingEntry); err != nil {
		s.logger.Error("Failed to stage pending history entry",
			"transfer_id", transferRequest.TransferID,
			"idempotency_key", idempotencyKey,
			"error", err,
		)
		return "", nil, err
	}

	key := transferRequest.AccountID.String()
	if err := s.producer.Publish(ctx, key, transferRequest); err != nil {
		s.logger.Error("Failed to publish transfer request",
			"account_id", transferRequest.AccountID,
			"amount", transferRequest.Amount,
			"error", err,
		)
		// Fail the staged entry so the idempotency key is not wedged on a
		// transfer that never reached the queue.
		if updateErr := s.historyRepo.UpdateStatus(ctx, transferRequest.TransferID, shared.TransferStatusFailed, string(shared.FailureReasonUnknownError)); updateErr != nil {
			s.logger.Error("Also failed to mark staged entry FAILED after publish error",
				"transfer_id", transferRequest.TransferID,
				"error", updateErr,
			)
		}
		return "", nil, err
	}

	s.logger.Info("Transfer request published",
		"transfer_id", transferRequest.TransferID,
		"account_id", transferRequest.AccountID,
		"amount", transferRequest.Amount,
	)

	return transferRequest.TransferID.String(), nil, nil
}

// GetTransferByID retrieves a transfer by its ID. Returns nil if not found
func (s *TransferServiceImpl) GetTransferByID(ctx context.Context, transferID uuid.UUID) (*history.Entry, error) {
	res, err := s.historyRepo.GetByTransferID(ctx, transferID)
	if err != nil {
		var errEntryNotFound history.ErrEntryNotFound
		if errors.As(err, &errEntryNotFound) {
			s.logger.Info("Transfer not found", "transfer_id", transferID.String())
			return nil, nil
		}
		s.logger.Error("Failed to get transfer by ID", "transfer_id", transferID.String(), "error", err)
		return nil, err
	}
	return res, nil
}

// GetTransfersByAccountID retrieves paginated transfer history for an account
// Returns entries newest first, total count, and any error
func (s *TransferServiceImpl) GetTransfersByAccountID(ctx context.Context, accountID uuid.UUID, page, perPage int) ([]*history.Entry, int64, error) {
	offset := (page - 1) * perPage

	entries, err := s.historyRepo.GetByAccountID(ctx, accountID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.historyRepo.CountByAccountID(ctx, accountID)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
