package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/odysseus-transfer-ledger/internal/domain/recipient"
	"github.com/odysseus-transfer-ledger/internal/platform/persistence"
)

const recipientColumns = `id, name, account_number, phone_number, bank_name,
		is_favorite, last_transfer_at, created_at, updated_at`

// RecipientRepository implements the recipient.Repository interface for PostgreSQL
type RecipientRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewRecipientRepository creates a new PostgreSQL recipient repository
func NewRecipientRepository(logger *slog.Logger, db *persistence.PostgresDB) recipient.Repository {
	return &RecipientRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Create stores a new saved recipient
func (r *RecipientRepository) Create(ctx context.Context, rec *recipient.Recipient) error {
	query := `
		INSERT INTO recipients (` + recipientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.querier.Exec(ctx, query,
		rec.ID,
		rec.Name,
		rec.AccountNumber,
		rec.PhoneNumber,
		rec.BankName,
		rec.IsFavorite,
		rec.LastTransferAt,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create recipient",
			"recipient_id", rec.ID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to create recipient: %w", err)
	}

	return nil
}

// GetByID retrieves a recipient by identifier.
// Returns ErrRecipientNotFound if no recipient exists.
func (r *RecipientRepository) GetByID(ctx context.Context, id uuid.UUID) (*recipient.Recipient, error) {
	query := `SELECT ` + recipientColumns + ` FROM recipients WHERE id = $1`

	rec, err := r.scanRecipient(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, recipient.ErrRecipientNotFound{Reference: id.String()}
		}
		r.logger.Error("Failed to get recipient",
			"recipient_id", id.String(),
			"error", err,
		)
		return nil, fmt.Errorf("failed to get recipient: %w", err)
	}

	return rec, nil
}

// List returns all saved recipients, most recently transferred-to first.
// Recipients never transferred to sort last, newest saved first.
func (r *RecipientRepository) List(ctx context.Context) ([]*recipient.Recipient, error) {
	query := `
		SELECT ` + recipientColumns + `
		FROM recipients
		ORDER BY last_transfer_at DESC NULLS LAST, created_at DESC
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list recipients", "error", err)
		return nil, fmt.Errorf("failed to list recipients: %w", err)
	}
	defer rows.Close()

	var recipients []*recipient.Recipient
	for rows.Next() {
		rec, err := r.scanRecipient(rows)
		if err != nil {
			r.logger.Error("Failed to scan recipient", "error", err)
			return nil, fmt.Errorf("failed to scan recipient: %w", err)
		}
		recipients = append(recipients, rec)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over recipients", "error", err)
		return nil, fmt.Errorf("error iterating over recipients: %w", err)
	}

	return recipients, nil
}

// Lookup resolves a recipient by account number or phone number.
// Account number takes precedence when both are provided.
func (r *RecipientRepository) Lookup(ctx context.Context, accountNumber, phoneNumber string) (*recipient.Recipient, error) {
	var (
		query string
		arg   string
	)
	switch {
	case accountNumber != "":
		query = `SELECT ` + recipientColumns + ` FROM recipients WHERE account_number = $1`
		arg = accountNumber
	case phoneNumber != "":
		query = `SELECT ` + recipientColumns + ` FROM recipients WHERE phone_number = $1`
		arg = phoneNumber
	default:
		return nil, recipient.ErrMissingLookupKey
	}

	rec, err := r.scanRecipient(r.querier.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, recipient.ErrRecipientNotFound{Reference: arg}
		}
		r.logger.Error("Failed to look up recipient",
			"reference", arg,
			"error", err,
		)
		return nil, fmt.Errorf("failed to look up recipient: %w", err)
	}

	return rec, nil
}

// SetFavorite toggles the favorite flag on a recipient
func (r *RecipientRepository) SetFavorite(ctx context.Context, id uuid.UUID, favorite bool) error {
	query := `
		UPDATE recipients
		SET is_favorite = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.querier.Exec(ctx, query, favorite, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to set recipient favorite",
			"recipient_id", id.String(),
			"error", err,
		)
		return fmt.Errorf("failed to set recipient favorite: %w", err)
	}

	if result.RowsAffected() == 0 {
		return recipient.ErrRecipientNotFound{Reference: id.String()}
	}

	return nil
}

// TouchLastTransfer records the time of the latest completed transfer to
// a recipient so List can order by recency.
func (r *RecipientRepository) TouchLastTransfer(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE recipients
		SET last_transfer_at = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.querier.Exec(ctx, query, at, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to touch recipient last transfer",
			"recipient_id", id.String(),
			"error", err,
		)
		return fmt.Errorf("failed to touch recipient last transfer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return recipient.ErrRecipientNotFound{Reference: id.String()}
	}

	return nil
}

func (r *RecipientRepository) scanRecipient(row pgx.Row) (*recipient.Recipient, error) {
	var rec recipient.Recipient
	err := row.Scan(
		&rec.ID,
		&rec.Name,
		&rec.AccountNumber,
		&rec.PhoneNumber,
		&rec.BankName,
		&rec.IsFavorite,
		&rec.LastTransferAt,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
