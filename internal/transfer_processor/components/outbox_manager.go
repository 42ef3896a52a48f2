package components

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/odysseus-transfer-ledger/internal/domain/account"
	"github.com/odysseus-transfer-ledger/internal/domain/history"
	"github.com/odysseus-transfer-ledger/internal/domain/outbox"
	"github.com/odysseus-transfer-ledger/internal/domain/shared"
	"github.com/odysseus-transfer-ledger/internal/transfer_processor/service"
)

type OutboxManagerImpl struct {
	outboxRepo outbox.Repository
	logger     *slog.Logger
}

func NewOutboxManager(outboxRepo outbox.Repository, logger *slog.Logger) service.OutboxManager {
	return &OutboxManagerImpl{
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// CreateOutboxEntry stages the executed transfer's history entry in the same
// database transaction as the debit. Party snapshots are taken here so later
// edits to the sender profile or saved recipients never rewrite receipts.
func (m *OutboxManagerImpl) CreateOutboxEntry(ctx context.Context, tx pgx.Tx, request *shared.TransferRequest, updatedAccount *account.Account) error {
	logger := m.logger
	if request.CorrelationID != "" {
		logger = m.logger.With("correlation_id", request.CorrelationID)
	}

	outboxRepoTx := m.outboxRepo.WithTx(tx)

	entryForOutbox := &history.Entry{
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
		Sender: history.Party{
			ID:            updatedAccount.ID.String(),
			Name:          updatedAccount.OwnerName,
			AccountNumber: updatedAccount.AccountNumber,
			PhoneNumber:   updatedAccount.PhoneNumber,
		},
		Note:           request.Note,
		Reference:      history.NewReference(request.TransferID, request.Timestamp),
		IdempotencyKey: request.IdempotencyKey,
		CorrelationID:  request.CorrelationID,
		Status:         shared.TransferStatusProcessing,
		CreatedAt:      request.Timestamp,
		// CompletedAt is set by the poller when the entry is published
	}

	outboxMessage, err := outbox.NewMessage(entryForOutbox)
	if err != nil {
		logger.Error("Failed to create new outbox message (marshal payload)",
			"transfer_id", request.TransferID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to create outbox message payload for transfer %s: %w", request.TransferID.String(), err)
	}

	if err = outboxRepoTx.Create(ctx, outboxMessage); err != nil {
		logger.Error("Failed to create outbox message",
			"transfer_id", request.TransferID.String(),
			"account_id", request.AccountID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to create outbox message for transfer %s: %w", request.TransferID.String(), err)
	}
	logger.Info("Outbox message created successfully",
		"transfer_id", request.TransferID.String(),
		"outbox_id", outboxMessage.ID,
	)

	return nil
}
