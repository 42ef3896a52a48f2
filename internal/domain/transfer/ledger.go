// Package transfer holds the transfer validation and limits-tracking core:
// the rules deciding whether a proposed transfer is allowed and the ledger
// mutation that applies a successful one. The package is free of I/O so the
// same rules run identically in the synchronous validation path and in the
// execution re-check under the account lock.
package transfer

import (
	"errors"
	"fmt"
)

// Execution-time errors. Validate reports the same conditions as verdict
// errors; these sentinels are returned only when a re-check at apply time
// fails because the ledger changed between validate and execute.
var (
	ErrInvalidAmount      = errors.New("transfer amount must be positive")
	ErrInsufficientFunds  = errors.New("insufficient funds for transfer")
	ErrDailyLimitExceeded = errors.New("daily transfer limit exceeded")
)

// Ledger is the mutable record of an account's balance and limit-usage
// counters, in minor units (sen). It is owned by the account aggregate and
// mutated only through Apply.
type Ledger struct {
	Balance             int64
	Currency            string
	DailyLimit          int64
	DailyUsed           int64
	MonthlyLimit        int64
	MonthlyUsed         int64
	PerTransactionLimit int64
}

// DailyRemaining returns the allowance left in the current daily window.
func (l *Ledger) DailyRemaining() int64 {
	return l.DailyLimit - l.DailyUsed
}

// MonthlyRemaining returns the allowance left in the current monthly window.
func (l *Ledger) MonthlyRemaining() int64 {
	return l.MonthlyLimit - l.MonthlyUsed
}

// Apply debits the balance and accumulates daily and monthly usage as a
// single unit. It re-checks the balance and daily-limit invariants first and
// leaves the ledger untouched on any error, so a failed apply never produces
// a partial mutation. The per-transaction limit is static and needs no
// re-check here; the monthly limit is tracked but deliberately not enforced
// as a blocker (only daily and per-transaction block).
func (l *Ledger) Apply(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > l.Balance {
		return ErrInsufficientFunds
	}
	if amount > l.DailyRemaining() {
		return ErrDailyLimitExceeded
	}

	l.Balance -= amount
	l.DailyUsed += amount
	l.MonthlyUsed += amount
	return nil
}

// formatRM renders a minor-unit amount the way receipts display it,
// e.g. 123450 -> "RM 1234.50".
func formatRM(amount int64) string {
	return fmt.Sprintf("RM %d.%02d", amount/100, amount%100)
}
