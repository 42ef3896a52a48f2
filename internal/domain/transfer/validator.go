package transfer

import (
	"fmt"
	"time"
)

// DuplicateWindow is the span within which a repeated amount+recipient
// transfer triggers a duplicate warning.
const DuplicateWindow = 5 * time.Minute

// dailyWarningNumerator/Denominator express the 80% threshold for the
// approaching-daily-limit warning in integer arithmetic.
const (
	dailyWarningNumerator   = 80
	dailyWarningDenominator = 100
)

// Validate evaluates a proposed transfer against a ledger snapshot and the
// caller's recent transfer history. It is pure: no mutation, and identical
// inputs yield identical verdicts (the duplicate window is the only rule that
// consults now).
//
// All applicable rules are evaluated independently and every blocking error
// is collected; nothing short-circuits. The daily-limit warning is emitted
// only on otherwise-clean requests, while the duplicate warning is
// independent of the error checks.
func Validate(req Request, ledger Ledger, recent []RecentTransfer, now time.Time) Verdict {
	var (
		errs     []FieldError
		warnings []Warning
	)

	if req.Amount > ledger.Balance {
		errs = append(errs, FieldError{
			Field:   "amount",
			Code:    CodeInsufficientFunds,
			Message: fmt.Sprintf("Insufficient funds. Available balance: %s", formatRM(ledger.Balance)),
		})
	}

	if req.Amount > ledger.DailyRemaining() {
		errs = append(errs, FieldError{
			Field:   "amount",
			Code:    CodeDailyLimitExceeded,
			Message: fmt.Sprintf("Daily limit exceeded. Remaining limit: %s", formatRM(ledger.DailyRemaining())),
		})
	}

	if req.Amount > ledger.PerTransactionLimit {
		errs = append(errs, FieldError{
			Field:   "amount",
			Code:    CodePerTransactionLimitExceeded,
			Message: fmt.Sprintf("Amount exceeds per-transaction limit of %s", formatRM(ledger.PerTransactionLimit)),
		})
	}

	// The monthly limit is tracked in the ledger but never blocks here; only
	// daily and per-transaction limits produce errors on this path.

	projectedUsed := ledger.DailyUsed + req.Amount
	if len(errs) == 0 && projectedUsed*dailyWarningDenominator >= ledger.DailyLimit*dailyWarningNumerator {
		warnings = append(warnings, Warning{
			Type: WarningDailyLimit,
			Message: fmt.Sprintf(
				"You're approaching your daily transfer limit. After this transfer, you'll have %s remaining.",
				formatRM(ledger.DailyLimit-projectedUsed),
			),
		})
	}

	if prior := findDuplicate(req, recent, now); prior != nil {
		warnings = append(warnings, Warning{
			Type:    WarningDuplicateTransfer,
			Message: "You made a similar transfer recently. Are you sure you want to proceed?",
			Details: map[string]any{
				"previous_transfer_id": prior.ID,
				"previous_amount":      prior.Amount,
				"previous_date":        prior.CreatedAt,
			},
		})
	}

	return Verdict{
		IsValid:  len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}
}

// findDuplicate returns the first prior transfer with the same amount to the
// same recipient inside the duplicate window. Recipient match is exact, on
// recipient id or account number, and empty references never match.
func findDuplicate(req Request, recent []RecentTransfer, now time.Time) *RecentTransfer {
	cutoff := now.Add(-DuplicateWindow)
	for i := range recent {
		prior := &recent[i]
		if prior.Amount != req.Amount {
			continue
		}
		if !prior.CreatedAt.After(cutoff) {
			continue
		}
		if sameRecipient(req, prior) {
			return prior
		}
	}
	return nil
}

func sameRecipient(req Request, prior *RecentTransfer) bool {
	if req.RecipientID != "" && req.RecipientID == prior.RecipientID {
		return true
	}
	if req.RecipientAccountNumber != "" && req.RecipientAccountNumber == prior.RecipientAccountNumber {
		return true
	}
	return false
}
