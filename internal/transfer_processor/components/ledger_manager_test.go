package components

import (
	"context"
	"testing"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/odysseus-transfer-ledger/internal/domain/account"
	"github.com/odysseus-transfer-ledger/internal/domain/shared"
	"github.com/odysseus-transfer-ledger/internal/domain/transfer"
)

type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) Create(ctx context.Context, acc *account.Account) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *MockAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepo) GetByAccountNumber(ctx context.Context, accountNumber string) (*account.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepo) Update(ctx context.Context, acc *account.Account) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *MockAccountRepo) LockForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepo) WithTx(tx pgx.Tx) account.Repository {
	args := m.Called(tx)
	return args.Get(0).(account.Repository)
}

func lockedTestAccount(balance, dailyUsed int64, dailyAnchor time.Time) *account.Account {
	return &account.Account{
		ID:                  uuid.New(),
		OwnerName:           "Ahmad Zulkifli",
		AccountNumber:       "8801234567",
		Balance:             balance,
		Currency:            "MYR",
		DailyLimit:          1000000,
		DailyUsed:           dailyUsed,
		MonthlyLimit:        20000000,
		MonthlyUsed:         4500000,
		PerTransactionLimit: 600000,
		DailyAnchor:         dailyAnchor,
		MonthlyAnchor:       dailyAnchor,
		Version:             1,
	}
}

func TestLedgerManager_LockAndApplyTransfer(t *testing.T) {
	mockRepo := &MockAccountRepo{}
	logger := slog.Default()
	manager := NewLedgerManager(mockRepo, logger)

	now := time.Now()

	newRequest := func(amount int64, currency string) *shared.TransferRequest {
		return &shared.TransferRequest{
			TransferID:             uuid.New(),
			AccountID:              uuid.New(),
			Amount:                 amount,
			Currency:               currency,
			RecipientAccountNumber: "5512345678",
		}
	}

	tests := []struct {
		name            string
		request         *shared.TransferRequest
		setupMocks      func(request *shared.TransferRequest)
		expectedError   error
		expectedBalance int64
	}{
		{
			name:    "successful transfer",
			request: newRequest(50000, "MYR"),
			setupMocks: func(request *shared.TransferRequest) {
				acc := lockedTestAccount(1500000, 200000, now)

				mockRepo.On("WithTx", mock.Anything).Return(mockRepo)
				mockRepo.On("LockForUpdate", mock.Anything, request.AccountID).Return(acc, nil)
				mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(a *account.Account) bool {
					return a.Balance == 1450000 && a.DailyUsed == 250000 && a.MonthlyUsed == 4550000 && a.Version == 2
				})).Return(nil)
			},
			expectedError:   nil,
			expectedBalance: 1450000,
		},
		{
			name:    "stale daily window rolls over before the re-check",
			request: newRequest(900000, "MYR"),
			setupMocks: func(request *shared.TransferRequest) {
				// Yesterday's usage would block this transfer; after rollover
				// the daily counter restarts at zero.
				acc := lockedTestAccount(1500000, 950000, now.AddDate(0, 0, -1))

				mockRepo.On("WithTx", mock.Anything).Return(mockRepo)
				mockRepo.On("LockForUpdate", mock.Anything, request.AccountID).Return(acc, nil)
				mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(a *account.Account) bool {
					return a.Balance == 600000 && a.DailyUsed == 900000
				})).Return(nil)
			},
			expectedError:   nil,
			expectedBalance: 600000,
		},
		{
			name:    "currency mismatch",
			request: newRequest(50000, "USD"),
			setupMocks: func(request *shared.TransferRequest) {
				acc := lockedTestAccount(1500000, 200000, now)

				mockRepo.On("WithTx", mock.Anything).Return(mockRepo)
				mockRepo.On("LockForUpdate", mock.Anything, request.AccountID).Return(acc, nil)
			},
			expectedError: shared.ErrInvalidCurrency,
		},
		{
			name:    "insufficient funds at execution",
			request: newRequest(50000, "MYR"),
			setupMocks: func(request *shared.TransferRequest) {
				acc := lockedTestAccount(40000, 0, now)

				mockRepo.On("WithTx", mock.Anything).Return(mockRepo)
				mockRepo.On("LockForUpdate", mock.Anything, request.AccountID).Return(acc, nil)
			},
			expectedError: transfer.ErrInsufficientFunds,
		},
		{
			name:    "daily limit exceeded at execution",
			request: newRequest(100000, "MYR"),
			setupMocks: func(request *shared.TransferRequest) {
				acc := lockedTestAccount(1500000, 950000, now)

				mockRepo.On("WithTx", mock.Anything).Return(mockRepo)
				mockRepo.On("LockForUpdate", mock.Anything, request.AccountID).Return(acc, nil)
			},
			expectedError: transfer.ErrDailyLimitExceeded,
		},
		{
			name:    "account not found",
			request: newRequest(50000, "MYR"),
			setupMocks: func(request *shared.TransferRequest) {
				mockRepo.On("WithTx", mock.Anything).Return(mockRepo)
				mockRepo.On("LockForUpdate", mock.Anything, request.AccountID).Return(nil, account.ErrAccountNotFound{})
			},
			expectedError: account.ErrAccountNotFound{},
		},
		{
			name:    "concurrent modification on update",
			request: newRequest(50000, "MYR"),
			setupMocks: func(request *shared.TransferRequest) {
				acc := lockedTestAccount(1500000, 200000, now)

				mockRepo.On("WithTx", mock.Anything).Return(mockRepo)
				mockRepo.On("LockForUpdate", mock.Anything, request.AccountID).Return(acc, nil)
				mockRepo.On("Update", mock.Anything, mock.Anything).Return(account.ErrConcurrentModification{AccountID: acc.ID})
			},
			expectedError: account.ErrConcurrentModification{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo = &MockAccountRepo{}
			manager = NewLedgerManager(mockRepo, logger)

			tt.setupMocks(tt.request)
			ctx := context.Background()

			updated, err := manager.LockAndApplyTransfer(ctx, nil, tt.request)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, updated)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, updated)
				assert.Equal(t, tt.expectedBalance, updated.Balance)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
