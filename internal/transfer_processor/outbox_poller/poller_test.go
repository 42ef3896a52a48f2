package outbox_poller

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/odysseus-transfer-ledger/internal/config"
	"github.com/odysseus-transfer-ledger/internal/domain/history"
	"github.com/odysseus-transfer-ledger/internal/domain/outbox"
	"github.com/odysseus-transfer-ledger/internal/domain/shared"
)

// MockHistoryPublisher for testing
type MockHistoryPublisher struct {
	mock.Mock
}

func (m *MockHistoryPublisher) PublishToHistory(ctx context.Context, message *outbox.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func TestPoller_ProcessPendingMessages(t *testing.T) {
	mockOutboxRepo := &MockOutboxRepo{}
	mockHistoryPublisher := &MockHistoryPublisher{}
	logger := slog.Default()

	cfg := &config.OutboxConfig{
		PollingInterval:  time.Second,
		BatchSize:        10,
		MaxRetryAttempts: 3,
	}

	poller := NewPoller(cfg, mockOutboxRepo, mockHistoryPublisher, logger)

	transferID := uuid.New()
	entry := &history.Entry{
		TransferID: transferID,
		Status:     shared.TransferStatusProcessing,
	}
	entryJSON, err := json.Marshal(entry)
	assert.NoError(t, err)

	message1 := &outbox.Message{
		ID:         1,
		TransferID: transferID,
		Status:     shared.OutboxStatusPending,
		Payload:    entryJSON,
		Attempts:   0,
		CreatedAt:  time.Now(),
	}

	message2 := &outbox.Message{
		ID:         2,
		TransferID: uuid.New(),
		Status:     shared.OutboxStatusPending,
		Payload:    entryJSON,
		Attempts:   0,
		CreatedAt:  time.Now(),
	}

	tests := []struct {
		name          string
		setupMocks    func()
		expectedError error
	}{
		{
			name: "successful processing of pending messages",
			setupMocks: func() {
				mockOutboxRepo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{message1, message2}, nil).Once()

				mockHistoryPublisher.On("PublishToHistory", mock.Anything, message1).Return(nil).Once()
				mockHistoryPublisher.On("PublishToHistory", mock.Anything, message2).Return(nil).Once()
			},
			expectedError: nil,
		},
		{
			name: "error getting pending messages",
			setupMocks: func() {
				mockOutboxRepo.On("GetPending", mock.Anything, 10).Return(nil, errors.New("db error")).Once()
			},
			expectedError: errors.New("failed to get pending outbox messages"),
		},
		{
			name: "no pending messages",
			setupMocks: func() {
				mockOutboxRepo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{}, nil).Once()
			},
			expectedError: nil,
		},
		{
			name: "error publishing one message",
			setupMocks: func() {
				mockOutboxRepo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{message1, message2}, nil).Once()

				mockHistoryPublisher.On("PublishToHistory", mock.Anything, message1).Return(errors.New("publish error")).Once()

				mockOutboxRepo.On("IncrementAttempts", mock.Anything, int64(1)).Return(nil).Once()

				mockHistoryPublisher.On("PublishToHistory", mock.Anything, message2).Return(nil).Once()
			},
			expectedError: nil,
		},
		{
			name: "max retry attempts reached",
			setupMocks: func() {
				maxAttemptsMessage := &outbox.Message{
					ID:         3,
					TransferID: uuid.New(),
					Status:     shared.OutboxStatusPending,
					Payload:    entryJSON,
					Attempts:   2,
					CreatedAt:  time.Now(),
				}

				mockOutboxRepo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{maxAttemptsMessage}, nil).Once()

				mockHistoryPublisher.On("PublishToHistory", mock.Anything, maxAttemptsMessage).Return(errors.New("publish error")).Once()

				mockOutboxRepo.On("IncrementAttempts", mock.Anything, int64(3)).Return(nil).Once()

				mockOutboxRepo.On("UpdateStatus", mock.Anything, int64(3), shared.OutboxStatusFailedToPublish).Return(nil).Once()
			},
			expectedError: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockOutboxRepo = &MockOutboxRepo{}
			mockHistoryPublisher = &MockHistoryPublisher{}
			poller = NewPoller(cfg, mockOutboxRepo, mockHistoryPublisher, logger)

			tt.setupMocks()
			ctx := context.Background()

			err := poller.processPendingMessages(ctx)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError.Error())
			} else {
				assert.NoError(t, err)
			}

			mockOutboxRepo.AssertExpectations(t)
			mockHistoryPublisher.AssertExpectations(t)
		})
	}
}

func TestPoller_Start(t *testing.T) {
	mockOutboxRepo := &MockOutboxRepo{}
	mockHistoryPublisher := &MockHistoryPublisher{}
	logger := slog.Default()

	cfg := &config.OutboxConfig{
		PollingInterval:  10 * time.Millisecond,
		BatchSize:        10,
		MaxRetryAttempts: 3,
	}

	poller := NewPoller(cfg, mockOutboxRepo, mockHistoryPublisher, logger)

	mockOutboxRepo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{}, nil).Maybe()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	go poller.Start(ctx)

	<-ctx.Done()
}
