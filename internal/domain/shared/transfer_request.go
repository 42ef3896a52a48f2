package shared

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidCurrency  = errors.New("invalid currency")
	ErrMissingRecipient = errors.New("transfer request carries no recipient reference")
)

// TransferRequest defines a Kafka message for transfer execution. Recipient
// fields mirror the submission contract: at least one of RecipientID,
// RecipientAccountNumber, or RecipientPhoneNumber identifies the recipient;
// RecipientName and BankName are display snapshots captured at submission.
type TransferRequest struct {
	TransferID             uuid.UUID `json:"transfer_id"`
	AccountID              uuid.UUID `json:"account_id"`
	Amount                 int64     `json:"amount"` // Stored in sen/minor units
	Currency               string    `json:"currency"`
	RecipientID            string    `json:"recipient_id,omitempty"`
	RecipientAccountNumber string    `json:"recipient_account_number,omitempty"`
	RecipientPhoneNumber   string    `json:"recipient_phone_number,omitempty"`
	RecipientName          string    `json:"recipient_name,omitempty"`
	BankName               string    `json:"bank_name,omitempty"`
	Note                   string    `json:"note,omitempty"`
	IdempotencyKey         string    `json:"idempotency_key,omitempty"`
	CorrelationID          string    `json:"correlation_id"`
	Timestamp              time.Time `json:"timestamp"`
}

// HasRecipient reports whether the request carries any recipient reference.
func (r *TransferRequest) HasRecipient() bool {
	return r.RecipientID != "" || r.RecipientAccountNumber != "" || r.RecipientPhoneNumber != ""
}
