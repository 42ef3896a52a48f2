package account

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/odysseus-transfer-ledger/internal/domain/transfer"
)

// Common errors
var (
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrEmptyOwnerName        = errors.New("owner name cannot be empty")
	ErrInvalidCurrencyFormat = errors.New("currency must be a 3-letter code")
	ErrInvalidLimits         = errors.New("limits must be non-negative")
)

// Account represents a bank account with its transfer limits. Balance and
// limit amounts are stored in sen/minor units. DailyAnchor and MonthlyAnchor
// record which day/month the usage counters belong to; stale counters are
// rolled over before execution.
type Account struct {
	ID                  uuid.UUID `json:"id"`
	OwnerName           string    `json:"owner_name"`
	AccountNumber       string    `json:"account_number"`
	PhoneNumber         string    `json:"phone_number,omitempty"`
	Balance             int64     `json:"balance"`
	Currency            string    `json:"currency"`
	DailyLimit          int64     `json:"daily_limit"`
	DailyUsed           int64     `json:"daily_used"`
	MonthlyLimit        int64     `json:"monthly_limit"`
	MonthlyUsed         int64     `json:"monthly_used"`
	PerTransactionLimit int64     `json:"per_transaction_limit"`
	DailyAnchor         time.Time `json:"daily_anchor"`
	MonthlyAnchor       time.Time `json:"monthly_anchor"`
	Version             int       `json:"version"` // For optimistic locking
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Limits bundles the static limit thresholds handed to NewAccount.
type Limits struct {
	Daily          int64
	Monthly        int64
	PerTransaction int64
}

// NewAccount creates a new account with the given parameters. Usage counters
// start at zero with anchors at the account's creation time.
func NewAccount(ownerName, accountNumber, phoneNumber string, initialBalance int64, currency string, limits Limits) (*Account, error) {
	if ownerName == "" {
		return nil, ErrEmptyOwnerName
	}
	if len(currency) != 3 { // Basic validation for currency code length
		return nil, ErrInvalidCurrencyFormat
	}
	if initialBalance < 0 {
		return nil, ErrInvalidAmount
	}
	if limits.Daily < 0 || limits.Monthly < 0 || limits.PerTransaction < 0 {
		return nil, ErrInvalidLimits
	}

	now := time.Now()
	return &Account{
		ID:                  uuid.New(),
		OwnerName:           ownerName,
		AccountNumber:       accountNumber,
		PhoneNumber:         phoneNumber,
		Balance:             initialBalance,
		Currency:            currency,
		DailyLimit:          limits.Daily,
		MonthlyLimit:        limits.Monthly,
		PerTransactionLimit: limits.PerTransaction,
		DailyAnchor:         now,
		MonthlyAnchor:       now,
		Version:             1,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

// LimitsLedger projects the account's balance and limit counters into the
// ledger consumed by the transfer validation core. The projection accounts
// for window rollover at now without mutating the account, so validation
// reads never see last period's usage.
func (a *Account) LimitsLedger(now time.Time) transfer.Ledger {
	ledger := transfer.Ledger{
		Balance:             a.Balance,
		Currency:            a.Currency,
		DailyLimit:          a.DailyLimit,
		DailyUsed:           a.DailyUsed,
		MonthlyLimit:        a.MonthlyLimit,
		MonthlyUsed:         a.MonthlyUsed,
		PerTransactionLimit: a.PerTransactionLimit,
	}
	if !sameDay(a.DailyAnchor, now) {
		ledger.DailyUsed = 0
	}
	if !sameMonth(a.MonthlyAnchor, now) {
		ledger.MonthlyUsed = 0
	}
	return ledger
}

// RollOver resets usage counters whose period has elapsed and re-anchors them
// at now. Returns true if any counter changed.
func (a *Account) RollOver(now time.Time) bool {
	changed := false
	if !sameDay(a.DailyAnchor, now) {
		a.DailyUsed = 0
		a.DailyAnchor = now
		changed = true
	}
	if !sameMonth(a.MonthlyAnchor, now) {
		a.MonthlyUsed = 0
		a.MonthlyAnchor = now
		changed = true
	}
	return changed
}

// ApplyTransfer debits the balance and accumulates usage counters for an
// outgoing transfer. It is the only balance/usage mutator on the account and
// delegates the invariant re-checks to the transfer core: on error the
// account is unchanged. Callers must RollOver first so stale counters do not
// block a permissible transfer.
func (a *Account) ApplyTransfer(amount int64) error {
	ledger := transfer.Ledger{
		Balance:             a.Balance,
		Currency:            a.Currency,
		DailyLimit:          a.DailyLimit,
		DailyUsed:           a.DailyUsed,
		MonthlyLimit:        a.MonthlyLimit,
		MonthlyUsed:         a.MonthlyUsed,
		PerTransactionLimit: a.PerTransactionLimit,
	}
	if err := ledger.Apply(amount); err != nil {
		return err
	}

	a.Balance = ledger.Balance
	a.DailyUsed = ledger.DailyUsed
	a.MonthlyUsed = ledger.MonthlyUsed
	a.UpdatedAt = time.Now()
	a.Version++
	return nil
}

// DailyRemaining returns the allowance left in the current daily window.
func (a *Account) DailyRemaining() int64 {
	return a.DailyLimit - a.DailyUsed
}

// MonthlyRemaining returns the allowance left in the current monthly window.
func (a *Account) MonthlyRemaining() int64 {
	return a.MonthlyLimit - a.MonthlyUsed
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func sameMonth(a, b time.Time) bool {
	ay, am, _ := a.UTC().Date()
	by, bm, _ := b.UTC().Date()
	return ay == by && am == bm
}
