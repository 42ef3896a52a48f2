package components

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/odysseus-transfer-ledger/internal/domain/account"
	"github.com/odysseus-transfer-ledger/internal/domain/outbox"
	"github.com/odysseus-transfer-ledger/internal/domain/shared"
)

type MockOutboxRepo struct {
	mock.Mock
}

func (m *MockOutboxRepo) Create(ctx context.Context, message *outbox.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockOutboxRepo) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepo) UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOutboxRepo) IncrementAttempts(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepo) WithTx(tx pgx.Tx) outbox.Repository {
	args := m.Called(tx)
	return args.Get(0).(outbox.Repository)
}

func TestOutboxManager_CreateOutboxEntry(t *testing.T) {
	transferID := uuid.New()
	accountID := uuid.New()
	now := time.Now()
	dbError := errors.New("db error")

	request := &shared.TransferRequest{
		TransferID:             transferID,
		AccountID:              accountID,
		Amount:                 50000,
		Currency:               "MYR",
		RecipientAccountNumber: "5512345678",
		RecipientName:          "Siti Aminah",
		BankName:               "Maybank",
		Note:                   "Lunch",
		IdempotencyKey:         "key1",
		CorrelationID:          "corr1",
		Timestamp:              now,
	}

	updatedAccount := &account.Account{
		ID:            accountID,
		OwnerName:     "Ahmad Zulkifli",
		AccountNumber: "8801234567",
		PhoneNumber:   "+60123456789",
		Balance:       1450000,
		Currency:      "MYR",
	}

	tests := []struct {
		name          string
		setupMocks    func(mockRepo *MockOutboxRepo)
		errorContains string
	}{
		{
			name: "successful outbox entry creation",
			setupMocks: func(mockRepo *MockOutboxRepo) {
				mockRepo.On("WithTx", mock.Anything).Return(mockRepo)
				mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(msg *outbox.Message) bool {
					entry, err := msg.GetHistoryEntry()
					if err != nil {
						return false
					}
					return msg.Status == shared.OutboxStatusPending &&
						entry.Status == shared.TransferStatusProcessing &&
						entry.Recipient.Name == "Siti Aminah" &&
						entry.Recipient.AccountNumber == "5512345678" &&
						entry.Sender.Name == "Ahmad Zulkifli" &&
						entry.Sender.AccountNumber == "8801234567" &&
						strings.HasPrefix(entry.Reference, "ODY-")
				})).Return(nil)
			},
		},
		{
			name: "error creating outbox entry",
			setupMocks: func(mockRepo *MockOutboxRepo) {
				mockRepo.On("WithTx", mock.Anything).Return(mockRepo)
				mockRepo.On("Create", mock.Anything, mock.Anything).Return(dbError)
			},
			errorContains: "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockOutboxRepo{}
			logger := slog.Default()
			manager := NewOutboxManager(mockRepo, logger)

			tt.setupMocks(mockRepo)
			ctx := context.Background()

			err := manager.CreateOutboxEntry(ctx, nil, request, updatedAccount)

			if tt.errorContains != "" {
				assert.Error(t, err)
				assert.True(t, strings.Contains(err.Error(), tt.errorContains),
					"Expected error to contain '%s', got '%s'", tt.errorContains, err.Error())
			} else {
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
