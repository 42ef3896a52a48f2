package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/odysseus-transfer-ledger/internal/domain/history"
	"github.com/odysseus-transfer-ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"
)

type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Create(ctx context.Context, entry *history.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockHistoryRepository) Replace(ctx context.Context, entry *history.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockHistoryRepository) GetByTransferID(ctx context.Context, transferID uuid.UUID) (*history.Entry, error) {
	args := m.Called(ctx, transferID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*history.Entry), args.Error(1)
}

func (m *MockHistoryRepository) GetByIdempotencyKey(ctx context.Context, idempotencyKey string) (*history.Entry, error) {
	args := m.Called(ctx, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*history.Entry), args.Error(1)
}

func (m *MockHistoryRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*history.Entry, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*history.Entry), args.Error(1)
}

func (m *MockHistoryRepository) CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockHistoryRepository) UpdateStatus(ctx context.Context, transferID uuid.UUID, status shared.TransferStatus, reason string) error {
	args := m.Called(ctx, transferID, status, reason)
	return args.Error(0)
}

func (m *MockHistoryRepository) FindRecentToRecipient(ctx context.Context, accountID uuid.UUID, amount int64, recipientID, accountNumber string, since time.Time) ([]*history.Entry, error) {
	args := m.Called(ctx, accountID, amount, recipientID, accountNumber, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*history.Entry), args.Error(1)
}

func TestNewHistoryRepository(t *testing.T) {
	db := &mongo.Database{}
	logger := slog.Default()

	repo := NewHistoryRepository(logger, db)

	assert.NotNil(t, repo)
	assert.IsType(t, &HistoryRepository{}, repo)
}

// Without a recipient id or account number there is nothing to match on,
// so the query is skipped entirely.
func TestHistoryRepository_FindRecentToRecipient_NoReferences(t *testing.T) {
	repo := &HistoryRepository{db: nil, logger: slog.Default()}

	entries, err := repo.FindRecentToRecipient(context.Background(), uuid.New(), 10000, "", "", time.Now().Add(-5*time.Minute))
	assert.NoError(t, err)
	assert.Nil(t, entries)
}

func TestHistoryRepository_StatusTransitions(t *testing.T) {
	mockRepo := &MockHistoryRepository{}
	transferID := uuid.New()

	tests := []struct {
		name          string
		status        shared.TransferStatus
		reason        string
		setupMocks    func()
		expectedError error
	}{
		{
			name:   "mark completed",
			status: shared.TransferStatusCompleted,
			reason: "",
			setupMocks: func() {
				mockRepo.On("UpdateStatus", mock.Anything, transferID, shared.TransferStatusCompleted, "").Return(nil)
			},
		},
		{
			name:   "mark failed with reason",
			status: shared.TransferStatusFailed,
			reason: string(shared.FailureReasonInsufficientFunds),
			setupMocks: func() {
				mockRepo.On("UpdateStatus", mock.Anything, transferID, shared.TransferStatusFailed, string(shared.FailureReasonInsufficientFunds)).Return(nil)
			},
		},
		{
			name:   "entry missing",
			status: shared.TransferStatusCompleted,
			reason: "",
			setupMocks: func() {
				mockRepo.On("UpdateStatus", mock.Anything, transferID, shared.TransferStatusCompleted, "").
					Return(history.ErrEntryNotFound{TransferID: transferID})
			},
			expectedError: history.ErrEntryNotFound{TransferID: transferID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo = &MockHistoryRepository{}
			tt.setupMocks()

			err := mockRepo.UpdateStatus(context.Background(), transferID, tt.status, tt.reason)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestHistoryRepository_IdempotencyKeyRequired(t *testing.T) {
	repo := &HistoryRepository{db: nil, logger: slog.Default()}

	entry, err := repo.GetByIdempotencyKey(context.Background(), "")
	assert.Error(t, err)
	assert.Nil(t, entry)
}

func TestMockHistoryRepository_RecentLookup(t *testing.T) {
	mockRepo := &MockHistoryRepository{}
	accountID := uuid.New()
	since := time.Now().Add(-5 * time.Minute)

	entry := &history.Entry{
		TransferID: uuid.New(),
		AccountID:  accountID,
		Amount:     10000,
		Currency:   "MYR",
		Recipient:  history.Party{ID: "rec-1", Name: "Siti Aminah", AccountNumber: "1234567890"},
		Status:     shared.TransferStatusCompleted,
		CreatedAt:  time.Now().Add(-2 * time.Minute),
	}

	mockRepo.On("FindRecentToRecipient", mock.Anything, accountID, int64(10000), "rec-1", "1234567890", since).
		Return([]*history.Entry{entry}, nil)
	mockRepo.On("FindRecentToRecipient", mock.Anything, accountID, int64(99999), "rec-1", "1234567890", since).
		Return(nil, errors.New("db error"))

	entries, err := mockRepo.FindRecentToRecipient(context.Background(), accountID, 10000, "rec-1", "1234567890", since)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, entry, entries[0])

	entries, err = mockRepo.FindRecentToRecipient(context.Background(), accountID, 99999, "rec-1", "1234567890", since)
	assert.Error(t, err)
	assert.Nil(t, entries)

	mockRepo.AssertExpectations(t)
}
