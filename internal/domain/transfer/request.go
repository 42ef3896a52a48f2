package transfer

import "time"

// Request is a proposed transfer as seen by the validation core. Amount is in
// minor units and must already have passed the positive-amount boundary
// check. Exactly which recipient reference is set depends on how the sender
// picked the recipient (saved contact, account number, or phone number).
// A request is immutable once constructed; one request produces at most one
// transfer.
type Request struct {
	Amount                 int64
	RecipientID            string
	RecipientAccountNumber string
	RecipientPhoneNumber   string
	Note                   string
}

// RecentTransfer is the slice of a prior transfer consulted by duplicate
// detection. Callers project it from their transfer history store.
type RecentTransfer struct {
	ID                     string
	Amount                 int64
	RecipientID            string
	RecipientAccountNumber string
	CreatedAt              time.Time
}
