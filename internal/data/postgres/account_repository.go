package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/odysseus-transfer-ledger/internal/domain/account"
	"github.com/odysseus-transfer-ledger/internal/platform/persistence"
)

const accountColumns = `id, owner_name, account_number, phone_number, balance, currency,
		daily_limit, daily_used, monthly_limit, monthly_used, per_transaction_limit,
		daily_anchor, monthly_anchor, version, created_at, updated_at`

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) account.Repository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction for atomic operations
func (r *AccountRepository) WithTx(tx pgx.Tx) account.Repository {
	return &AccountRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new account. Returns ErrDuplicateAccountNumber when the
// account number is already taken.
func (r *AccountRepository) Create(ctx context.Context, acc *account.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.querier.Exec(ctx, query,
		acc.ID,
		acc.OwnerName,
		acc.AccountNumber,
		acc.PhoneNumber,
		acc.Balance,
		acc.Currency,
		acc.DailyLimit,
		acc.DailyUsed,
		acc.MonthlyLimit,
		acc.MonthlyUsed,
		acc.PerTransactionLimit,
		acc.DailyAnchor,
		acc.MonthlyAnchor,
		acc.Version,
		acc.CreatedAt,
		acc.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return account.ErrDuplicateAccountNumber{AccountNumber: acc.AccountNumber}
		}
		r.logger.Error("Failed to create account",
			"account_id", acc.ID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by its identifier.
// Returns ErrAccountNotFound if no account exists.
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	acc, err := r.scanAccount(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{AccountID: id}
		}
		r.logger.Error("Failed to get account",
			"account_id", id.String(),
			"error", err,
		)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return acc, nil
}

// GetByAccountNumber retrieves an account by its human-facing number.
func (r *AccountRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`

	acc, err := r.scanAccount(r.querier.QueryRow(ctx, query, accountNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{}
		}
		r.logger.Error("Failed to get account by number",
			"account_number", accountNumber,
			"error", err,
		)
		return nil, fmt.Errorf("failed to get account by number: %w", err)
	}

	return acc, nil
}

// LockForUpdate retrieves an account with a row-level lock. It must be
// called on a repository wrapped with WithTx; the lock serializes
// concurrent transfers against one account until the transaction ends.
func (r *AccountRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

	acc, err := r.scanAccount(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{AccountID: id}
		}
		r.logger.Error("Failed to lock account",
			"account_id", id.String(),
			"error", err,
		)
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}

	return acc, nil
}

// Update persists the account's balance, usage counters and window anchors.
// The version column implements optimistic concurrency control: the write
// only succeeds against the version the account was loaded at.
func (r *AccountRepository) Update(ctx context.Context, acc *account.Account) error {
	query := `
		UPDATE accounts
		SET balance = $1, daily_used = $2, monthly_used = $3,
			daily_anchor = $4, monthly_anchor = $5,
			version = $6, updated_at = $7
		WHERE id = $8 AND version = $9
	`

	now := time.Now()
	result, err := r.querier.Exec(ctx, query,
		acc.Balance,
		acc.DailyUsed,
		acc.MonthlyUsed,
		acc.DailyAnchor,
		acc.MonthlyAnchor,
		acc.Version,
		now,
		acc.ID,
		acc.Version-1,
	)
	if err != nil {
		r.logger.Error("Failed to update account",
			"account_id", acc.ID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to update account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrConcurrentModification{AccountID: acc.ID}
	}

	acc.UpdatedAt = now
	return nil
}

func (r *AccountRepository) scanAccount(row pgx.Row) (*account.Account, error) {
	var acc account.Account
	err := row.Scan(
		&acc.ID,
		&acc.OwnerName,
		&acc.AccountNumber,
		&acc.PhoneNumber,
		&acc.Balance,
		&acc.Currency,
		&acc.DailyLimit,
		&acc.DailyUsed,
		&acc.MonthlyLimit,
		&acc.MonthlyUsed,
		&acc.PerTransactionLimit,
		&acc.DailyAnchor,
		&acc.MonthlyAnchor,
		&acc.Version,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}
