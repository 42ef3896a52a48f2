// Package history holds the append-only transfer history: one immutable
// entry per transfer, newest first, keyed by the sending account.
package history

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/odysseus-transfer-ledger/internal/domain/shared"
	"github.com/odysseus-transfer-ledger/internal/domain/transfer"
)

// Party is a point-in-time snapshot of one side of a transfer. Snapshots are
// taken at execution so later edits to recipients or profiles never rewrite
// receipts.
type Party struct {
	ID            string `json:"id" bson:"id"`
	Name          string `json:"name" bson:"name"`
	AccountNumber string `json:"account_number,omitempty" bson:"account_number,omitempty"`
	PhoneNumber   string `json:"phone_number,omitempty" bson:"phone_number,omitempty"`
	BankName      string `json:"bank_name,omitempty" bson:"bank_name,omitempty"`
}

// Entry represents one transfer in the history ledger
type Entry struct {
	TransferID     uuid.UUID             `json:"transfer_id" bson:"transfer_id"`
	AccountID      uuid.UUID             `json:"account_id" bson:"account_id"`
	Amount         int64                 `json:"amount" bson:"amount"` // Stored in sen/minor units
	Currency       string                `json:"currency" bson:"currency"`
	Recipient      Party                 `json:"recipient" bson:"recipient"`
	Sender         Party                 `json:"sender" bson:"sender"`
	Note           string                `json:"note,omitempty" bson:"note,omitempty"`
	Reference      string                `json:"reference" bson:"reference"`
	IdempotencyKey string                `json:"idempotency_key,omitempty" bson:"idempotency_key,omitempty"`
	CorrelationID  string                `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	Status         shared.TransferStatus `json:"status" bson:"status"`
	FailureReason  string                `json:"failure_reason,omitempty" bson:"failure_reason,omitempty"`
	CreatedAt      time.Time             `json:"created_at" bson:"created_at"`
	CompletedAt    *time.Time            `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

// IsTerminal reports whether the entry has reached a final state.
func (e *Entry) IsTerminal() bool {
	return e.Status == shared.TransferStatusCompleted || e.Status == shared.TransferStatusFailed
}

// AsRecentTransfer projects the entry into the shape the validation core's
// duplicate detection consumes.
func (e *Entry) AsRecentTransfer() transfer.RecentTransfer {
	return transfer.RecentTransfer{
		ID:                     e.TransferID.String(),
		Amount:                 e.Amount,
		RecipientID:            e.Recipient.ID,
		RecipientAccountNumber: e.Recipient.AccountNumber,
		CreatedAt:              e.CreatedAt,
	}
}

// NewReference produces the human-displayable receipt reference,
// e.g. ODY-20260829-4F2A1C. The tail is taken from the transfer id so a
// retried execution reproduces the same reference.
func NewReference(transferID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("ODY-%s-%X", at.UTC().Format("20060102"), transferID[:3])
}
