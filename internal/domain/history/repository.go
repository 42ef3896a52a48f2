package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/odysseus-transfer-ledger/internal/domain/shared"
)

// Repository manages history entry persistence with pagination support.
// GetByAccountID returns entries newest first.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	GetByTransferID(ctx context.Context, transferID uuid.UUID) (*Entry, error)
	GetByIdempotencyKey(ctx context.Context, idempotencyKey string) (*Entry, error)
	GetByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Entry, error)
	CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, transferID uuid.UUID, status shared.TransferStatus, reason string) error

	// Replace overwrites the stored entry for entry.TransferID with the given
	// document, inserting it when absent. Used when completing an entry that
	// was staged as PENDING at submission, so the receipt reference and party
	// snapshots from the executed transfer land in the store.
	Replace(ctx context.Context, entry *Entry) error

	// FindRecentToRecipient returns completed entries from the account with
	// the given amount to the given recipient (matched exactly on recipient
	// id or account number; empty references never match) created after
	// since. Used by duplicate-transfer detection.
	FindRecentToRecipient(ctx context.Context, accountID uuid.UUID, amount int64, recipientID, accountNumber string, since time.Time) ([]*Entry, error)
}

// ErrEntryNotFound indicates missing history entry
type ErrEntryNotFound struct {
	TransferID uuid.UUID
}

func (e ErrEntryNotFound) Error() string {
	return "history entry not found: " + e.TransferID.String()
}

// Is implements the errors.Is interface for ErrEntryNotFound
func (e ErrEntryNotFound) Is(target error) bool {
	t, ok := target.(ErrEntryNotFound)
	if !ok {
		return false
	}
	// If the target TransferID is empty, consider it a match for any ErrEntryNotFound
	if t.TransferID == uuid.Nil {
		return true
	}
	return e.TransferID == t.TransferID
}

// ErrDuplicateEntry indicates transfer uniqueness violation
type ErrDuplicateEntry struct {
	TransferID uuid.UUID
}

func (e ErrDuplicateEntry) Error() string {
	return "duplicate history entry: " + e.TransferID.String()
}

// Is implements the errors.Is interface for ErrDuplicateEntry
func (e ErrDuplicateEntry) Is(target error) bool {
	t, ok := target.(ErrDuplicateEntry)
	if !ok {
		return false
	}
	if t.TransferID == uuid.Nil {
		return true
	}
	return e.TransferID == t.TransferID
}
