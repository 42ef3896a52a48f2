package components

import (
	"testing"

	"log/slog"

	"github.com/stretchr/testify/assert"

	"github.com/odysseus-transfer-ledger/internal/config"
	"github.com/odysseus-transfer-ledger/internal/platform/persistence"
	"github.com/odysseus-transfer-ledger/internal/transfer_processor/service"
)

// Reusing the mocks from the other test files in this package:
// MockAccountRepo from ledger_manager_test.go
// MockOutboxRepo from outbox_manager_test.go
// MockHistoryRepo from transfer_validator_test.go

func TestCreateProcessingService(t *testing.T) {
	mockPgDB := &persistence.PostgresDB{}
	mockAccountRepo := &MockAccountRepo{}
	mockOutboxRepo := &MockOutboxRepo{}
	mockHistoryRepo := &MockHistoryRepo{}
	logger := slog.Default()

	cfg := &config.Config{
		WorkerPool: config.WorkerPoolConfig{
			Size: 5,
		},
	}

	t.Run("creates worker pool service with valid config", func(t *testing.T) {
		processingService := CreateProcessingService(
			mockPgDB,
			mockAccountRepo,
			mockOutboxRepo,
			mockHistoryRepo,
			logger,
			cfg,
		)

		assert.NotNil(t, processingService)

		_, ok := processingService.(service.ProcessingService)
		assert.True(t, ok)
	})

	t.Run("still returns a processing service with zero pool size", func(t *testing.T) {
		zeroCfg := &config.Config{
			WorkerPool: config.WorkerPoolConfig{
				Size: 0,
			},
		}

		processingService := CreateProcessingService(
			mockPgDB,
			mockAccountRepo,
			mockOutboxRepo,
			mockHistoryRepo,
			logger,
			zeroCfg,
		)

		assert.NotNil(t, processingService)

		_, ok := processingService.(service.ProcessingService)
		assert.True(t, ok)
	})
}
