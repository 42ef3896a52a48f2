package account

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odysseus-transfer-ledger/internal/domain/transfer"
)

func testLimits() Limits {
	return Limits{Daily: 1000000, Monthly: 5000000, PerTransaction: 600000}
}

func TestNewAccount(t *testing.T) {
	t.Run("valid account", func(t *testing.T) {
		acc, err := NewAccount("Amir Hamzah", "1122334455", "+60123456789", 250000, "MYR", testLimits())
		require.NoError(t, err)

		assert.Equal(t, int64(250000), acc.Balance)
		assert.Equal(t, int64(0), acc.DailyUsed)
		assert.Equal(t, int64(0), acc.MonthlyUsed)
		assert.Equal(t, 1, acc.Version)
		assert.False(t, acc.DailyAnchor.IsZero())
	})

	t.Run("empty owner name", func(t *testing.T) {
		_, err := NewAccount("", "1122334455", "", 0, "MYR", testLimits())
		assert.ErrorIs(t, err, ErrEmptyOwnerName)
	})

	t.Run("bad currency code", func(t *testing.T) {
		_, err := NewAccount("Amir Hamzah", "1122334455", "", 0, "RM", testLimits())
		assert.ErrorIs(t, err, ErrInvalidCurrencyFormat)
	})

	t.Run("negative balance", func(t *testing.T) {
		_, err := NewAccount("Amir Hamzah", "1122334455", "", -1, "MYR", testLimits())
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("negative limit", func(t *testing.T) {
		_, err := NewAccount("Amir Hamzah", "1122334455", "", 0, "MYR", Limits{Daily: -1})
		assert.ErrorIs(t, err, ErrInvalidLimits)
	})
}

func TestAccount_ApplyTransfer(t *testing.T) {
	newAcc := func() *Account {
		acc, err := NewAccount("Amir Hamzah", "1122334455", "", 100000, "MYR", testLimits())
		require.NoError(t, err)
		return acc
	}

	t.Run("success mutates balance, usage, and version together", func(t *testing.T) {
		acc := newAcc()

		require.NoError(t, acc.ApplyTransfer(30000))

		assert.Equal(t, int64(70000), acc.Balance)
		assert.Equal(t, int64(30000), acc.DailyUsed)
		assert.Equal(t, int64(30000), acc.MonthlyUsed)
		assert.Equal(t, 2, acc.Version)
	})

	t.Run("insufficient funds leaves account untouched", func(t *testing.T) {
		acc := newAcc()

		err := acc.ApplyTransfer(100001)
		assert.ErrorIs(t, err, transfer.ErrInsufficientFunds)
		assert.Equal(t, int64(100000), acc.Balance)
		assert.Equal(t, int64(0), acc.DailyUsed)
		assert.Equal(t, 1, acc.Version)
	})

	t.Run("daily limit exhausted leaves account untouched", func(t *testing.T) {
		acc := newAcc()
		acc.Balance = 2000000
		acc.DailyUsed = 950000

		err := acc.ApplyTransfer(50001)
		assert.ErrorIs(t, err, transfer.ErrDailyLimitExceeded)
		assert.Equal(t, int64(950000), acc.DailyUsed)
	})
}

func TestAccount_RollOver(t *testing.T) {
	acc, err := NewAccount("Amir Hamzah", "1122334455", "", 100000, "MYR", testLimits())
	require.NoError(t, err)
	anchor := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	acc.DailyAnchor = anchor
	acc.MonthlyAnchor = anchor
	acc.DailyUsed = 40000
	acc.MonthlyUsed = 90000

	t.Run("same day is a no-op", func(t *testing.T) {
		assert.False(t, acc.RollOver(acc.DailyAnchor))
		assert.Equal(t, int64(40000), acc.DailyUsed)
	})

	t.Run("next day resets daily only", func(t *testing.T) {
		nextDay := acc.DailyAnchor.Add(24 * time.Hour)

		assert.True(t, acc.RollOver(nextDay))
		assert.Equal(t, int64(0), acc.DailyUsed)
		assert.Equal(t, int64(90000), acc.MonthlyUsed)
	})

	t.Run("next month resets both", func(t *testing.T) {
		acc.DailyUsed = 40000
		nextMonth := acc.MonthlyAnchor.AddDate(0, 1, 0)

		assert.True(t, acc.RollOver(nextMonth))
		assert.Equal(t, int64(0), acc.DailyUsed)
		assert.Equal(t, int64(0), acc.MonthlyUsed)
	})
}

func TestAccount_LimitsLedger(t *testing.T) {
	acc, err := NewAccount("Amir Hamzah", "1122334455", "", 100000, "MYR", testLimits())
	require.NoError(t, err)
	acc.DailyUsed = 40000
	acc.MonthlyUsed = 90000

	t.Run("current period carries usage", func(t *testing.T) {
		ledger := acc.LimitsLedger(acc.DailyAnchor)

		assert.Equal(t, int64(40000), ledger.DailyUsed)
		assert.Equal(t, int64(90000), ledger.MonthlyUsed)
		assert.Equal(t, acc.Balance, ledger.Balance)
	})

	t.Run("stale windows project as zero without mutating", func(t *testing.T) {
		ledger := acc.LimitsLedger(acc.DailyAnchor.AddDate(0, 1, 0))

		assert.Equal(t, int64(0), ledger.DailyUsed)
		assert.Equal(t, int64(0), ledger.MonthlyUsed)
		assert.Equal(t, int64(40000), acc.DailyUsed)
	})
}
