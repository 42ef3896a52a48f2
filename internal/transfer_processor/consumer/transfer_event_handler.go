package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/odysseus-transfer-ledger/internal/domain/shared"
	"github.com/odysseus-transfer-ledger/internal/platform/messaging/producers"
	"github.com/odysseus-transfer-ledger/internal/transfer_processor/service"
)

// TransferEventHandler handles incoming transfer request messages from Kafka
type TransferEventHandler struct {
	processingService service.ProcessingService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

// NewTransferEventHandler creates a new handler
func NewTransferEventHandler(
	logger *slog.Logger,
	processingService service.ProcessingService,
	producer producers.DeadLetterPublisher,
) *TransferEventHandler {
	return &TransferEventHandler{
		processingService: processingService,
		producer:          producer,
		logger:            logger,
	}
}

// HandleMessage processes Kafka messages
func (h *TransferEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var request shared.TransferRequest
	if err := json.Unmarshal(value, &request); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal transfer request from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		// Send to DLQ if available
		if h.producer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
				// Return original error if DLQ fails
			} else {
				h.logger.Info("Successfully published unprocessable message to DLQ", "message_key", string(key), "reason", dlqReason)
				// Message handled, commit offset
				return nil
			}
		}
		// Allow Kafka retries
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	logger := h.logger
	if request.CorrelationID != "" {
		logger = h.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Received transfer request for processing",
		"transfer_id", request.TransferID.String(),
		"account_id", request.AccountID.String(),
		"amount", request.Amount,
	)

	if err := h.processingService.ProcessTransfer(ctx, &request); err != nil {
		logger.Error("Failed to process transfer",
			"transfer_id", request.TransferID.String(),
			"account_id", request.AccountID.String(),
			"error", err,
		)
		return fmt.Errorf("processing transfer %s failed: %w", request.TransferID.String(), err)
	}

	logger.Info("Successfully processed transfer", "transfer_id", request.TransferID.String())
	return nil // Success, commit offset
}
