package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/odysseus-transfer-ledger/internal/domain/account"
	"github.com/odysseus-transfer-ledger/internal/domain/shared"
)

// ProcessingService defines the interface for executing queued transfer requests.
type ProcessingService interface {
	ProcessTransfer(ctx context.Context, request *shared.TransferRequest) error
}

// TransferValidator performs structural checks and the idempotency lookup
// before a transfer touches the account.
type TransferValidator interface {
	Validate(ctx context.Context, request *shared.TransferRequest) error
	CheckIdempotency(ctx context.Context, request *shared.TransferRequest) (bool, error)
}

// LedgerManager locks the sending account, re-checks the transfer against its
// current limits, and persists the debit.
type LedgerManager interface {
	LockAndApplyTransfer(ctx context.Context, tx pgx.Tx, request *shared.TransferRequest) (*account.Account, error)
}

// OutboxManager stages the history entry of an executed transfer for
// publication after commit.
type OutboxManager interface {
	CreateOutboxEntry(ctx context.Context, tx pgx.Tx, request *shared.TransferRequest, updatedAccount *account.Account) error
}

// FailureRecorder records transfers that failed execution in the history store.
type FailureRecorder interface {
	RecordFailure(ctx context.Context, request *shared.TransferRequest, failureReason string) error
}
