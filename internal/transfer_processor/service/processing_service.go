package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/odysseus-transfer-ledger/internal/domain/account"
	"github.com/odysseus-transfer-ledger/internal/domain/shared"
	"github.com/odysseus-transfer-ledger/internal/domain/transfer"
	"github.com/odysseus-transfer-ledger/internal/platform/persistence"
)

type ProcessingServiceImpl struct {
	pgDB            *persistence.PostgresDB
	validator       TransferValidator
	ledgerManager   LedgerManager
	outboxManager   OutboxManager
	failureRecorder FailureRecorder
	logger          *slog.Logger
}

func NewProcessingService(
	pgDB *persistence.PostgresDB,
	validator TransferValidator,
	ledgerManager LedgerManager,
	outboxManager OutboxManager,
	failureRecorder FailureRecorder,
	logger *slog.Logger,
) ProcessingService {
	return &ProcessingServiceImpl{
		pgDB:            pgDB,
		validator:       validator,
		ledgerManager:   ledgerManager,
		outboxManager:   outboxManager,
		failureRecorder: failureRecorder,
		logger:          logger,
	}
}

// ProcessTransfer executes one queued transfer request. Business rejections
// (unknown account, limit breaches) are recorded as FAILED history entries and
// acknowledged; infrastructure errors propagate so the message is retried.
func (s *ProcessingServiceImpl) ProcessTransfer(ctx context.Context, request *shared.TransferRequest) error {
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Processing transfer", "transfer_id", request.TransferID.String(), "account_id", request.AccountID.String())

	// 1. Structural validation
	if err := s.validator.Validate(ctx, request); err != nil {
		logger.Error("Transfer validation failed", "transfer_id", request.TransferID.String(), "error", err)

		var failureReason string
		switch {
		case errors.Is(err, shared.ErrMissingRecipient):
			failureReason = string(shared.FailureReasonMissingRecipient)
		case errors.Is(err, transfer.ErrInvalidAmount):
			failureReason = string(shared.FailureReasonInvalidAmount)
		default:
			failureReason = string(shared.FailureReasonUnknownError)
		}

		if recordErr := s.failureRecorder.RecordFailure(ctx, request, failureReason); recordErr != nil {
			logger.Error("Failed to record transfer failure", "transfer_id", request.TransferID.String(), "error", recordErr)
		}

		return nil // Acknowledge the message; a replay cannot succeed
	}

	// 2. Check idempotency
	skip, err := s.validator.CheckIdempotency(ctx, request)
	if err != nil {
		return err // Let Kafka retry
	}
	if skip {
		return nil // Already processed
	}

	// 3. Begin database transaction
	var tx pgx.Tx
	tx, err = s.pgDB.Pool().Begin(ctx)
	if err != nil {
		logger.Error("Failed to begin database transaction", "transfer_id", request.TransferID.String(), "error", err)
		return fmt.Errorf("failed to begin DB transaction for %s: %w", request.TransferID.String(), err)
	}
	defer func() {
		if p := recover(); p != nil {
			logger.Error("Panic recovered, rolling back transaction", "panic", p, "transfer_id", request.TransferID.String())
			_ = tx.Rollback(ctx)
			panic(p) // Re-panic
		} else if err != nil {
			logger.Error("Error occurred, rolling back transaction", "error", err, "transfer_id", request.TransferID.String())
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				logger.Error("Failed to rollback transaction after error", "rollback_error", rbErr, "original_error", err, "transfer_id", request.TransferID.String())
			}
		}
	}()

	// 4. Lock the account and apply the debit
	updatedAccount, err := s.ledgerManager.LockAndApplyTransfer(ctx, tx, request)
	if err != nil {
		if failureReason, rejected := classifyRejection(err, request); rejected {
			if recordErr := s.failureRecorder.RecordFailure(ctx, request, failureReason); recordErr != nil {
				logger.Error("Failed to record transfer rejection", "transfer_id", request.TransferID.String(), "reason", failureReason, "error", recordErr)
			}
			return nil // Acknowledge; the rejection is final
		}

		// Infrastructure errors (including concurrent modification) propagate
		// so the message replays against fresh state.
		return err
	}

	// 5. Create outbox entry
	if err = s.outboxManager.CreateOutboxEntry(ctx, tx, request, updatedAccount); err != nil {
		return err // Let the defer handle rollback
	}

	// 6. Commit transaction
	if err = tx.Commit(ctx); err != nil {
		logger.Error("Failed to commit database transaction",
			"transfer_id", request.TransferID.String(),
			"account_id", request.AccountID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to commit DB transaction for transfer %s: %w", request.TransferID.String(), err)
	}

	logger.Info("Transfer committed",
		"transfer_id", request.TransferID.String(),
		"account_id", request.AccountID.String(),
		"balance", updatedAccount.Balance,
	)
	return nil
}

// classifyRejection maps business rejections from the execution path to their
// recorded failure reason. Errors outside this set are retryable.
func classifyRejection(err error, request *shared.TransferRequest) (string, bool) {
	switch {
	case errors.Is(err, account.ErrAccountNotFound{AccountID: request.AccountID}):
		return string(shared.FailureReasonAccountNotFound), true
	case errors.Is(err, shared.ErrInvalidCurrency):
		return string(shared.FailureReasonCurrencyMismatch), true
	case errors.Is(err, transfer.ErrInvalidAmount):
		return string(shared.FailureReasonInvalidAmount), true
	case errors.Is(err, transfer.ErrInsufficientFunds):
		return string(shared.FailureReasonInsufficientFunds), true
	case errors.Is(err, transfer.ErrDailyLimitExceeded):
		return string(shared.FailureReasonDailyLimitExceeded), true
	}
	return "", false
}
