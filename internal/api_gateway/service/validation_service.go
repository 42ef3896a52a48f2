package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/odysseus-transfer-ledger/internal/domain/account"
	"github.com/odysseus-transfer-ledger/internal/domain/history"
	"github.com/odysseus-transfer-ledger/internal/domain/transfer"
)

// ValidationServiceImpl implements the ValidationService interface
type ValidationServiceImpl struct {
	accountRepo account.Repository
	historyRepo history.Repository
	logger      *slog.Logger
}

// NewValidationService creates a new validation service
func NewValidationService(logger *slog.Logger, accountRepo account.Repository, historyRepo history.Repository) ValidationService {
	return &ValidationServiceImpl{
		accountRepo: accountRepo,
		historyRepo: historyRepo,
		logger:      logger,
	}
}

// ValidateTransfer loads the account, projects its limit usage to the current
// window, pulls the recent completed transfers that could trigger a duplicate
// warning, and hands everything to the validation core. The account is not
// mutated and the verdict reserves nothing: execution re-checks under lock.
func (s *ValidationServiceImpl) ValidateTransfer(ctx context.Context, accountID uuid.UUID, req transfer.Request) (*transfer.Verdict, error) {
	now := time.Now()

	acc, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	recent, err := s.recentTransfers(ctx, accountID, req, now)
	if err != nil {
		s.logger.Error("Failed to load recent transfers for duplicate detection",
			"account_id", accountID.String(),
			"error", err,
		)
		return nil, err
	}

	verdict := transfer.Validate(req, acc.LimitsLedger(now), recent, now)

	s.logger.Info("Transfer validated",
		"account_id", accountID.String(),
		"amount", req.Amount,
		"is_valid", verdict.IsValid,
		"errors", len(verdict.Errors),
		"warnings", len(verdict.Warnings),
	)

	return &verdict, nil
}

// recentTransfers projects completed history entries inside the duplicate
// window into the shape the validation core consumes. With no recipient
// reference on the request there is nothing to match, so the query is skipped.
func (s *ValidationServiceImpl) recentTransfers(ctx context.Context, accountID uuid.UUID, req transfer.Request, now time.Time) ([]transfer.RecentTransfer, error) {
	if req.RecipientID == "" && req.RecipientAccountNumber == "" {
		return nil, nil
	}

	since := now.Add(-transfer.DuplicateWindow)
	entries, err := s.historyRepo.FindRecentToRecipient(ctx, accountID, req.Amount, req.RecipientID, req.RecipientAccountNumber, since)
	if err != nil {
		return nil, err
	}

	recent := make([]transfer.RecentTransfer, 0, len(entries))
	for _, entry := range entries {
		recent = append(recent, entry.AsRecentTransfer())
	}
	return recent, nil
}
