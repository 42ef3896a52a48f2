package outbox_poller

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/odysseus-transfer-ledger/internal/config"
	"github.com/odysseus-transfer-ledger/internal/domain/history"
	"github.com/odysseus-transfer-ledger/internal/domain/outbox"
	"github.com/odysseus-transfer-ledger/internal/domain/shared"
)

// Poller drains pending outbox rows on a fixed interval and hands each one to
// the history publisher. Rows that keep failing are retried up to
// maxRetryAttempts and then parked as FAILED_TO_PUBLISH for manual review.
type Poller struct {
	outboxRepo       outbox.Repository
	historyPublisher HistoryPublisher
	logger           *slog.Logger
	pollInterval     time.Duration
	batchSize        int
	maxRetryAttempts int
}

func NewPoller(
	cfg *config.OutboxConfig,
	outboxRepo outbox.Repository,
	historyPublisher HistoryPublisher,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		outboxRepo:       outboxRepo,
		historyPublisher: historyPublisher,
		logger:           logger,
		pollInterval:     cfg.PollingInterval,
		batchSize:        cfg.BatchSize,
		maxRetryAttempts: cfg.MaxRetryAttempts,
	}
}

// Start runs the poll loop until ctx is canceled.
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Outbox poller started",
		"poll_interval", p.pollInterval.String(),
		"batch_size", p.batchSize,
		"max_retry_attempts", p.maxRetryAttempts,
	)

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Outbox poller stopped")
			return
		case <-ticker.C:
			if err := p.processPendingMessages(ctx); err != nil {
				p.logger.Error("Outbox batch failed", "error", err)
			}
		}
	}
}

// processPendingMessages publishes one batch of pending rows. A failing row
// never blocks the rest of the batch.
func (p *Poller) processPendingMessages(ctx context.Context) error {
	messages, err := p.outboxRepo.GetPending(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("failed to get pending outbox messages: %w", err)
	}
	if len(messages) == 0 {
		return nil
	}

	p.logger.Debug("Publishing pending outbox messages", "count", len(messages))

	for _, msg := range messages {
		p.publishMessage(ctx, msg)
	}
	return nil
}

// publishMessage pushes a single outbox row through the history publisher and
// does the retry bookkeeping when that fails.
func (p *Poller) publishMessage(ctx context.Context, msg *outbox.Message) {
	logger := p.logger
	if correlationID := correlationIDFromPayload(msg.Payload); correlationID != "" {
		logger = p.logger.With("correlation_id", correlationID)
	}

	if err := p.historyPublisher.PublishToHistory(ctx, msg); err != nil {
		logger.Error("Failed to publish outbox message to history",
			"outbox_id", msg.ID, "transfer_id", msg.TransferID, "attempts", msg.Attempts, "error", err,
		)

		if errInc := p.outboxRepo.IncrementAttempts(ctx, msg.ID); errInc != nil {
			logger.Error("Failed to increment outbox attempts", "outbox_id", msg.ID, "error", errInc)
			return
		}

		if msg.Attempts+1 >= p.maxRetryAttempts {
			logger.Warn("Outbox message exhausted retries, parking as FAILED_TO_PUBLISH",
				"outbox_id", msg.ID, "transfer_id", msg.TransferID, "attempts", msg.Attempts+1,
			)
			if errUpdate := p.outboxRepo.UpdateStatus(ctx, msg.ID, shared.OutboxStatusFailedToPublish); errUpdate != nil {
				logger.Error("Failed to park outbox message as FAILED_TO_PUBLISH", "outbox_id", msg.ID, "error", errUpdate)
			}
		}
		return
	}

	logger.Info("Outbox message published to history", "outbox_id", msg.ID, "transfer_id", msg.TransferID)
}

// correlationIDFromPayload digs the correlation id out of the staged entry so
// poller logs line up with the gateway's. Unreadable payloads are reported by
// the publisher, not here.
func correlationIDFromPayload(payload []byte) string {
	var entry history.Entry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return ""
	}
	return entry.CorrelationID
}
