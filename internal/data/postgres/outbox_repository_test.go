package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/odysseus-transfer-ledger/internal/domain/outbox"
	"github.com/odysseus-transfer-ledger/internal/domain/shared"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxRepository_Create(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: logger}

	message := &outbox.Message{
		TransferID: uuid.New(),
		AccountID:  uuid.New(),
		Payload:    []byte(`{"status":"PROCESSING"}`),
		Status:     shared.OutboxStatusPending,
		Attempts:   0,
		CreatedAt:  time.Now(),
	}

	query := `INSERT INTO transfer_outbox`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id"}).AddRow(int64(42))
		mock.ExpectQuery(query).
			WithArgs(message.TransferID, message.AccountID, message.Payload, message.Status, message.Attempts, message.CreatedAt).
			WillReturnRows(rows)

		err := repo.Create(ctx, message)
		assert.NoError(t, err)
		assert.Equal(t, int64(42), message.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		dbErr := errors.New("db error")
		mock.ExpectQuery(query).
			WithArgs(message.TransferID, message.AccountID, message.Payload, message.Status, message.Attempts, message.CreatedAt).
			WillReturnError(dbErr)

		err := repo.Create(ctx, message)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create outbox message")
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_GetPending(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: logger}
	now := time.Now()

	query := `SELECT (.+) FROM transfer_outbox\s+WHERE status = \$1`

	t.Run("returns pending messages in FIFO order", func(t *testing.T) {
		first := uuid.New()
		second := uuid.New()
		accountID := uuid.New()
		rows := pgxmock.NewRows([]string{"id", "transfer_id", "account_id", "payload", "status", "attempts", "created_at", "last_attempt_at"}).
			AddRow(int64(1), first, accountID, []byte(`{}`), shared.OutboxStatusPending, 0, now.Add(-time.Minute), (*time.Time)(nil)).
			AddRow(int64(2), second, accountID, []byte(`{}`), shared.OutboxStatusPending, 1, now, &now)

		mock.ExpectQuery(query).WithArgs(shared.OutboxStatusPending, 10).WillReturnRows(rows)

		messages, err := repo.GetPending(ctx, 10)
		assert.NoError(t, err)
		require.Len(t, messages, 2)
		assert.Equal(t, first, messages[0].TransferID)
		assert.Equal(t, second, messages[1].TransferID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("query failed")
		mock.ExpectQuery(query).WithArgs(shared.OutboxStatusPending, 10).WillReturnError(dbErr)

		messages, err := repo.GetPending(ctx, 10)
		assert.Error(t, err)
		assert.Nil(t, messages)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: logger}

	query := `UPDATE transfer_outbox\s+SET status = \$1, last_attempt_at = \$2`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(shared.OutboxStatusProcessed, pgxmock.AnyArg(), int64(7)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateStatus(ctx, 7, shared.OutboxStatusProcessed)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(shared.OutboxStatusProcessed, pgxmock.AnyArg(), int64(7)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateStatus(ctx, 7, shared.OutboxStatusProcessed)
		assert.ErrorIs(t, err, outbox.ErrMessageNotFound{ID: 7})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_IncrementAttempts(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: logger}

	query := `UPDATE transfer_outbox\s+SET attempts = attempts \+ 1`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(pgxmock.AnyArg(), int64(3)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.IncrementAttempts(ctx, 3)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(pgxmock.AnyArg(), int64(3)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.IncrementAttempts(ctx, 3)
		assert.ErrorIs(t, err, outbox.ErrMessageNotFound{ID: 3})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_WithTx(t *testing.T) {
	logger := newTestLogger()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	originalRepo := &OutboxRepository{querier: mockPool, logger: logger}

	mockPool.ExpectBegin()
	pgxTx, err := mockPool.Begin(context.Background())
	require.NoError(t, err)

	txRepo := originalRepo.WithTx(pgxTx)

	assert.NotNil(t, txRepo)
	assert.Equal(t, pgxTx, txRepo.(*OutboxRepository).querier)

	assert.NoError(t, mockPool.ExpectationsWereMet())
}
