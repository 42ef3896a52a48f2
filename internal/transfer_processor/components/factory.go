package components

import (
	"log/slog"

	"github.com/odysseus-transfer-ledger/internal/config"
	"github.com/odysseus-transfer-ledger/internal/domain/account"
	"github.com/odysseus-transfer-ledger/internal/domain/history"
	"github.com/odysseus-transfer-ledger/internal/domain/outbox"
	"github.com/odysseus-transfer-ledger/internal/platform/persistence"
	"github.com/odysseus-transfer-ledger/internal/transfer_processor/service"
)

// CreateProcessingService creates a new ProcessingService with all its dependencies.
func CreateProcessingService(
	pgDB *persistence.PostgresDB,
	accountRepo account.Repository,
	outboxRepo outbox.Repository,
	historyRepo history.Repository,
	logger *slog.Logger,
	cfg *config.Config,
) service.ProcessingService {
	validator := NewTransferValidator(historyRepo, logger)
	ledgerManager := NewLedgerManager(accountRepo, logger)
	outboxManager := NewOutboxManager(outboxRepo, logger)
	failureRecorder := NewFailureRecorder(historyRepo, logger)

	baseService := service.NewProcessingService(
		pgDB,
		validator,
		ledgerManager,
		outboxManager,
		failureRecorder,
		logger,
	)

	workerPoolService, err := service.NewWorkerPoolProcessingService(
		baseService,
		service.WorkerPoolConfig{
			Size: cfg.WorkerPool.Size,
		},
		logger.With("component", "worker_pool"),
	)

	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService
	}

	logger.Info("Created worker pool processing service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService
}
