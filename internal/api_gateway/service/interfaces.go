package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/odysseus-transfer-ledger/internal/domain/account"
	"github.com/odysseus-transfer-ledger/internal/domain/history"
	"github.com/odysseus-transfer-ledger/internal/domain/recipient"
	"github.com/odysseus-transfer-ledger/internal/domain/shared"
	"github.com/odysseus-transfer-ledger/internal/domain/transfer"
)

// AccountService defines the interface for account operations
type AccountService interface {
	// CreateAccount creates a new account with the given details
	// Returns ErrDuplicateAccountNumber if an account with the same number exists
	CreateAccount(ctx context.Context, ownerName, accountNumber, phoneNumber string, initialBalance int64, currency string, limits account.Limits) (*account.Account, error)

	// GetAccountByID retrieves an account by its ID
	// Returns ErrAccountNotFound if the account doesn't exist
	GetAccountByID(ctx context.Context, id uuid.UUID) (*account.Account, error)

	// GetAccountLimits returns the account's limit thresholds and the usage
	// projected to now, so stale usage from an elapsed window reads as zero
	GetAccountLimits(ctx context.Context, id uuid.UUID, now time.Time) (*account.Account, transfer.Ledger, error)
}

// ValidationService runs the pre-submission transfer checks
type ValidationService interface {
	// ValidateTransfer evaluates a proposed transfer against the account's
	// balance, limits, and recent transfer history without mutating anything.
	// The verdict carries every blocking error plus any advisory warnings.
	ValidateTransfer(ctx context.Context, accountID uuid.UUID, req transfer.Request) (*transfer.Verdict, error)
}

// TransferService defines the interface for transfer submission and lookup
type TransferService interface {
	// CreateTransfer queues a transfer for execution with idempotency support.
	// Returns transfer ID, existing history entry (if found via idempotencyKey), and any error
	CreateTransfer(ctx context.Context, transferRequest *shared.TransferRequest) (string, *history.Entry, error)

	// GetTransferByID retrieves a transfer by its ID
	// Returns nil if the transfer is not found
	GetTransferByID(ctx context.Context, transferID uuid.UUID) (*history.Entry, error)

	// GetTransfersByAccountID retrieves paginated transfer history for an account
	// Returns entries (newest first), total count, and any error
	GetTransfersByAccountID(ctx context.Context, accountID uuid.UUID, page, perPage int) ([]*history.Entry, int64, error)
}

// RecipientService defines the interface for saved recipient operations
type RecipientService interface {
	// ListRecipients returns saved recipients, most recently used first
	ListRecipients(ctx context.Context) ([]*recipient.Recipient, error)

	// LookupRecipient resolves a recipient by account number or phone number
	// Returns ErrRecipientNotFound if nothing matches
	LookupRecipient(ctx context.Context, accountNumber, phoneNumber string) (*recipient.Recipient, error)

	// SaveRecipient stores a new saved recipient
	// Returns ErrUnreachableRecipient when neither account number nor phone number is given
	SaveRecipient(ctx context.Context, name, accountNumber, phoneNumber, bankName string) (*recipient.Recipient, error)

	// SetFavorite flips the favorite flag and returns the updated recipient
	// Returns ErrRecipientNotFound if the recipient doesn't exist
	SetFavorite(ctx context.Context, id uuid.UUID, favorite bool) (*recipient.Recipient, error)
}
