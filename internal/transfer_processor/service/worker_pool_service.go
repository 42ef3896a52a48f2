package service

import (
	"context"
	"log/slog"

	"github.com/panjf2000/ants/v2"

	"github.com/odysseus-transfer-ledger/internal/domain/shared"
)

// WorkerPoolProcessingService fans transfer execution out over an ants pool.
// Ordering per account is preserved upstream by partition assignment; the pool
// bounds how many transfers execute concurrently across accounts.
type WorkerPoolProcessingService struct {
	baseService ProcessingService
	pool        *ants.Pool
	logger      *slog.Logger
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolProcessingService(
	baseService ProcessingService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolProcessingService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolProcessingService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
	}, nil
}

// ProcessTransfer runs the transfer on a pool worker and blocks until it
// finishes, so the caller's offset commit still reflects the real outcome.
func (s *WorkerPoolProcessingService) ProcessTransfer(ctx context.Context, request *shared.TransferRequest) error {
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Submitting transfer to worker pool",
		"transfer_id", request.TransferID.String(),
		"account_id", request.AccountID.String(),
	)

	// Copy the request so the worker never races the caller
	requestCopy := *request
	resultChan := make(chan error, 1)

	if err := s.pool.Submit(func() {
		resultChan <- s.baseService.ProcessTransfer(ctx, &requestCopy)
	}); err != nil {
		logger.Error("Failed to submit transfer to worker pool",
			"transfer_id", request.TransferID.String(),
			"error", err,
		)
		return err
	}

	return <-resultChan
}

// Shutdown releases the pool. In-flight workers finish their current transfer.
func (s *WorkerPoolProcessingService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running reports how many workers are currently executing transfers.
func (s *WorkerPoolProcessingService) Running() int {
	return s.pool.Running()
}

// Capacity reports the pool's concurrency bound.
func (s *WorkerPoolProcessingService) Capacity() int {
	return s.pool.Cap()
}
