// Package recipient models the sender's saved transfer recipients.
package recipient

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMissingLookupKey = errors.New("recipient lookup needs an account number or phone number")

	// ErrUnreachableRecipient rejects saving a recipient that no transfer
	// could ever reach.
	ErrUnreachableRecipient = errors.New("a saved recipient needs an account number or phone number")
)

// Recipient is a saved transfer destination.
type Recipient struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	AccountNumber  string     `json:"account_number,omitempty"`
	PhoneNumber    string     `json:"phone_number,omitempty"`
	BankName       string     `json:"bank_name,omitempty"`
	IsFavorite     bool       `json:"is_favorite"`
	LastTransferAt *time.Time `json:"last_transfer_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Repository defines recipient persistence operations. List returns
// recipients most recently transferred-to first.
type Repository interface {
	Create(ctx context.Context, r *Recipient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Recipient, error)
	List(ctx context.Context) ([]*Recipient, error)
	Lookup(ctx context.Context, accountNumber, phoneNumber string) (*Recipient, error)
	SetFavorite(ctx context.Context, id uuid.UUID, favorite bool) error
	TouchLastTransfer(ctx context.Context, id uuid.UUID, at time.Time) error
}

// ErrRecipientNotFound indicates no recipient matched the given reference
type ErrRecipientNotFound struct {
	Reference string
}

func (e ErrRecipientNotFound) Error() string {
	return "no account found with the provided details: " + e.Reference
}

// Is implements the errors.Is interface for ErrRecipientNotFound
func (e ErrRecipientNotFound) Is(target error) bool {
	t, ok := target.(ErrRecipientNotFound)
	if !ok {
		return false
	}
	if t.Reference == "" {
		return true
	}
	return e.Reference == t.Reference
}
