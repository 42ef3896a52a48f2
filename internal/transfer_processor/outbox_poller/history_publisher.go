package outbox_poller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/odysseus-transfer-ledger/internal/domain/history"
	"github.com/odysseus-transfer-ledger/internal/domain/outbox"
	"github.com/odysseus-transfer-ledger/internal/domain/recipient"
	"github.com/odysseus-transfer-ledger/internal/domain/shared"
)

// HistoryPublisher publishes outbox messages to the transfer history store
type HistoryPublisher interface {
	PublishToHistory(ctx context.Context, message *outbox.Message) error
}

// HistoryPublisherImpl implements HistoryPublisher
type HistoryPublisherImpl struct {
	outboxRepo    outbox.Repository
	historyRepo   history.Repository
	recipientRepo recipient.Repository
	logger        *slog.Logger
}

// NewHistoryPublisher creates a new publisher. recipientRepo may be nil when
// saved-recipient bookkeeping is not wanted.
func NewHistoryPublisher(
	outboxRepo outbox.Repository,
	historyRepo history.Repository,
	recipientRepo recipient.Repository,
	logger *slog.Logger,
) HistoryPublisher {
	return &HistoryPublisherImpl{
		outboxRepo:    outboxRepo,
		historyRepo:   historyRepo,
		recipientRepo: recipientRepo,
		logger:        logger,
	}
}

// PublishToHistory writes a committed transfer's entry into the history store
// as COMPLETED and marks the outbox row processed.
func (p *HistoryPublisherImpl) PublishToHistory(ctx context.Context, message *outbox.Message) error {
	var entryToPublish history.Entry
	if err := json.Unmarshal(message.Payload, &entryToPublish); err != nil {
		p.logger.Error("Failed to unmarshal history entry from outbox payload",
			"outbox_id", message.ID, "transfer_id", message.TransferID, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after unmarshal error", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	logger := p.logger
	if entryToPublish.CorrelationID != "" {
		logger = p.logger.With("correlation_id", entryToPublish.CorrelationID)
	}

	logger.Info("Attempting to publish outbox message to history", "outbox_id", message.ID, "transfer_id", message.TransferID)

	entryToPublish.Status = shared.TransferStatusCompleted
	now := time.Now().UTC()
	entryToPublish.CompletedAt = &now

	existingEntry, err := p.historyRepo.GetByTransferID(ctx, entryToPublish.TransferID)
	if err != nil && !errors.Is(err, history.ErrEntryNotFound{}) {
		logger.Error("Failed to check existing history entry before publishing", "transfer_id", entryToPublish.TransferID, "error", err)
		return fmt.Errorf("failed to check existing history entry %s: %w", entryToPublish.TransferID, err)
	}

	if existingEntry != nil {
		if existingEntry.Status == shared.TransferStatusCompleted {
			logger.Info("History entry already COMPLETED", "transfer_id", entryToPublish.TransferID)
		} else {
			// The gateway stages a PENDING entry at submission without the
			// sender snapshot. Replace the whole document so the executed
			// transfer's parties and reference make it into the receipt.
			err = p.historyRepo.Replace(ctx, &entryToPublish)
			if err != nil {
				logger.Error("Failed to complete existing history entry", "transfer_id", entryToPublish.TransferID, "error", err)
				return fmt.Errorf("failed to complete history entry %s: %w", entryToPublish.TransferID, err)
			}
			logger.Info("Completed staged history entry", "transfer_id", entryToPublish.TransferID)
		}
	} else {
		err = p.historyRepo.Create(ctx, &entryToPublish)
		if err != nil {
			logger.Error("Failed to create history entry in MongoDB", "transfer_id", entryToPublish.TransferID, "error", err)
			return fmt.Errorf("failed to create history entry %s: %w", entryToPublish.TransferID, err)
		}
		logger.Info("Successfully created history entry in MongoDB", "transfer_id", entryToPublish.TransferID)
	}

	p.touchRecipient(ctx, logger, &entryToPublish, now)

	// Mark outbox message as processed
	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		logger.Error("Failed to update outbox message status to PROCESSED",
			"outbox_id", message.ID, "transfer_id", message.TransferID, "error", err,
		)
		return fmt.Errorf("history write for %s OK, but failed to mark outbox %d as PROCESSED: %w", message.TransferID, message.ID, err)
	}

	logger.Info("Outbox message successfully processed and marked as PROCESSED", "outbox_id", message.ID, "transfer_id", message.TransferID)
	return nil
}

// touchRecipient refreshes the saved recipient's last-transfer timestamp.
// Best effort: the transfer is already committed, so bookkeeping failures are
// logged and swallowed.
func (p *HistoryPublisherImpl) touchRecipient(ctx context.Context, logger *slog.Logger, entry *history.Entry, at time.Time) {
	if p.recipientRepo == nil || entry.Recipient.ID == "" {
		return
	}

	recipientID, err := uuid.Parse(entry.Recipient.ID)
	if err != nil {
		// Ad-hoc recipients carry no saved-recipient id
		return
	}

	if err := p.recipientRepo.TouchLastTransfer(ctx, recipientID, at); err != nil {
		logger.Warn("Failed to refresh recipient last transfer timestamp",
			"recipient_id", entry.Recipient.ID, "transfer_id", entry.TransferID, "error", err,
		)
	}
}
