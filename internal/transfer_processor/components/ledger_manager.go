package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/odysseus-transfer-ledger/internal/domain/account"
	"github.com/odysseus-transfer-ledger/internal/domain/shared"
	"github.com/odysseus-transfer-ledger/internal/transfer_processor/service"
)

// LedgerManagerImpl implements the LedgerManager interface
type LedgerManagerImpl struct {
	accountRepo account.Repository
	logger      *slog.Logger
}

// NewLedgerManager creates a new LedgerManagerImpl
func NewLedgerManager(accountRepo account.Repository, logger *slog.Logger) service.LedgerManager {
	return &LedgerManagerImpl{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// LockAndApplyTransfer locks the sending account, rolls stale usage windows
// over, re-checks the transfer against the current balance and limits, and
// persists the debit. The limit re-check runs under the row lock so a burst of
// transfers validated against the same snapshot cannot jointly exceed a limit.
func (m *LedgerManagerImpl) LockAndApplyTransfer(ctx context.Context, tx pgx.Tx, request *shared.TransferRequest) (*account.Account, error) {
	logger := m.logger
	if request.CorrelationID != "" {
		logger = m.logger.With("correlation_id", request.CorrelationID)
	}

	accountRepoTx := m.accountRepo.WithTx(tx)

	lockedAccount, err := accountRepoTx.LockForUpdate(ctx, request.AccountID)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound{AccountID: request.AccountID}) {
			logger.Warn("Account not found for lock", "transfer_id", request.TransferID.String(), "account_id", request.AccountID.String(), "original_error", err)
			return nil, err
		}
		logger.Error("Failed to lock account", "transfer_id", request.TransferID.String(), "account_id", request.AccountID.String(), "error", err)
		return nil, fmt.Errorf("failed to lock account %s: %w", request.AccountID.String(), err)
	}
	logger.Info("Account locked", "transfer_id", request.TransferID.String(), "account_id", lockedAccount.ID.String(), "balance", lockedAccount.Balance, "version", lockedAccount.Version)

	if lockedAccount.Currency != request.Currency {
		logger.Error("Currency mismatch", "transfer_id", request.TransferID.String(), "request_currency", request.Currency, "account_currency", lockedAccount.Currency)
		return nil, shared.ErrInvalidCurrency
	}

	now := time.Now()
	if lockedAccount.RollOver(now) {
		logger.Info("Usage window rolled over", "transfer_id", request.TransferID.String(), "account_id", lockedAccount.ID.String())
	}

	if applyErr := lockedAccount.ApplyTransfer(request.Amount); applyErr != nil {
		logger.Warn("Transfer rejected at execution", "transfer_id", request.TransferID.String(), "error", applyErr, "balance", lockedAccount.Balance, "amount", request.Amount)
		return nil, applyErr
	}
	logger.Info("Account debited in memory", "transfer_id", request.TransferID.String(), "new_balance", lockedAccount.Balance, "new_version", lockedAccount.Version)

	if err = accountRepoTx.Update(ctx, lockedAccount); err != nil {
		if errors.Is(err, account.ErrConcurrentModification{AccountID: lockedAccount.ID}) {
			logger.Warn("Concurrent modification on account update", "transfer_id", request.TransferID.String(), "account_id", lockedAccount.ID.String())
		} else {
			logger.Error("Failed to update account in DB", "transfer_id", request.TransferID.String(), "account_id", lockedAccount.ID.String(), "error", err)
		}
		return nil, err
	}
	logger.Info("Account updated in DB", "transfer_id", request.TransferID.String(), "account_id", lockedAccount.ID.String())

	return lockedAccount, nil
}
