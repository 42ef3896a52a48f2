package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/odysseus-transfer-ledger/internal/domain/history"
	"github.com/odysseus-transfer-ledger/internal/domain/shared"
)

const (
	// HistoryCollectionName is the name of the transfer history collection in MongoDB
	HistoryCollectionName = "transfer_history"
)

// HistoryRepository implements the history.Repository interface for MongoDB
type HistoryRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewHistoryRepository creates a new MongoDB history repository
func NewHistoryRepository(logger *slog.Logger, db *mongo.Database) history.Repository {
	return &HistoryRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new history entry after checking for duplicates.
// Returns ErrDuplicateEntry if an entry with the same transfer ID exists.
func (r *HistoryRepository) Create(ctx context.Context, entry *history.Entry) error {
	collection := r.db.Collection(HistoryCollectionName)

	existingEntry, err := r.GetByTransferID(ctx, entry.TransferID)
	if err != nil && !errors.Is(err, history.ErrEntryNotFound{}) {
		r.logger.Error("Failed to check for existing history entry",
			"transfer_id", entry.TransferID.String(),
			"error", err)
		return fmt.Errorf("failed to check for existing history entry: %w", err)
	}

	if existingEntry != nil {
		return history.ErrDuplicateEntry{TransferID: entry.TransferID}
	}

	_, err = collection.InsertOne(ctx, entry)
	if err != nil {
		r.logger.Error("Failed to create history entry",
			"transfer_id", entry.TransferID.String(),
			"error", err)
		return fmt.Errorf("failed to create history entry: %w", err)
	}

	return nil
}

// Replace overwrites the entry for the transfer ID with the given document,
// inserting it when no entry exists yet.
func (r *HistoryRepository) Replace(ctx context.Context, entry *history.Entry) error {
	collection := r.db.Collection(HistoryCollectionName)

	filter := bson.M{"transfer_id": entry.TransferID}
	opts := options.Replace().SetUpsert(true)
	_, err := collection.ReplaceOne(ctx, filter, entry, opts)
	if err != nil {
		r.logger.Error("Failed to replace history entry",
			"transfer_id", entry.TransferID.String(),
			"error", err)
		return fmt.Errorf("failed to replace history entry: %w", err)
	}

	return nil
}

// GetByTransferID retrieves a history entry by its transfer ID.
// Returns ErrEntryNotFound if no entry exists for the given transfer.
func (r *HistoryRepository) GetByTransferID(ctx context.Context, transferID uuid.UUID) (*history.Entry, error) {
	collection := r.db.Collection(HistoryCollectionName)

	filter := bson.M{"transfer_id": transferID}
	var entry history.Entry
	err := collection.FindOne(ctx, filter).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, history.ErrEntryNotFound{TransferID: transferID}
		}
		r.logger.Error("Failed to get history entry",
			"transfer_id", transferID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get history entry: %w", err)
	}

	return &entry, nil
}

// GetByIdempotencyKey retrieves a history entry using its idempotency key.
// Returns nil if no entry exists, enabling idempotent transfer submission.
func (r *HistoryRepository) GetByIdempotencyKey(ctx context.Context, idempotencyKey string) (*history.Entry, error) {
	if idempotencyKey == "" {
		return nil, errors.New("idempotency key cannot be empty")
	}

	collection := r.db.Collection(HistoryCollectionName)

	filter := bson.M{"idempotency_key": idempotencyKey}
	var entry history.Entry
	err := collection.FindOne(ctx, filter).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // No entry found with this idempotency key
		}
		r.logger.Error("Failed to get history entry by idempotency key",
			"idempotency_key", idempotencyKey,
			"error", err)
		return nil, fmt.Errorf("failed to get history entry by idempotency key: %w", err)
	}

	return &entry, nil
}

// GetByAccountID retrieves paginated history entries for an account.
// Results are sorted by creation time in descending order (newest first).
func (r *HistoryRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*history.Entry, error) {
	collection := r.db.Collection(HistoryCollectionName)

	filter := bson.M{"account_id": accountID}
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get history entries",
			"account_id", accountID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get history entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*history.Entry
	if err := cursor.All(ctx, &entries); err != nil {
		r.logger.Error("Failed to decode history entries",
			"account_id", accountID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to decode history entries: %w", err)
	}

	return entries, nil
}

// CountByAccountID counts the total number of history entries for an account
func (r *HistoryRepository) CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error) {
	collection := r.db.Collection(HistoryCollectionName)

	filter := bson.M{"account_id": accountID}
	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to count history entries",
			"account_id", accountID.String(),
			"error", err)
		return 0, fmt.Errorf("failed to count history entries: %w", err)
	}

	return count, nil
}

// UpdateStatus updates the entry's status, failure reason, and completion timestamp.
// Returns ErrEntryNotFound if the entry doesn't exist.
func (r *HistoryRepository) UpdateStatus(ctx context.Context, transferID uuid.UUID, status shared.TransferStatus, reason string) error {
	collection := r.db.Collection(HistoryCollectionName)

	filter := bson.M{"transfer_id": transferID}
	update := bson.M{
		"$set": bson.M{
			"status":         status,
			"failure_reason": reason,
			"completed_at":   time.Now(),
		},
	}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error("Failed to update history entry status",
			"transfer_id", transferID.String(),
			"status", string(status),
			"error", err)
		return fmt.Errorf("failed to update history entry status: %w", err)
	}

	if result.MatchedCount == 0 {
		return history.ErrEntryNotFound{TransferID: transferID}
	}

	return nil
}

// FindRecentToRecipient retrieves completed transfers of the given amount to
// the given recipient created after since, newest first. The recipient
// matches on id or account number; empty references are excluded from the
// filter so they never match.
func (r *HistoryRepository) FindRecentToRecipient(ctx context.Context, accountID uuid.UUID, amount int64, recipientID, accountNumber string, since time.Time) ([]*history.Entry, error) {
	var recipientFilters []bson.M
	if recipientID != "" {
		recipientFilters = append(recipientFilters, bson.M{"recipient.id": recipientID})
	}
	if accountNumber != "" {
		recipientFilters = append(recipientFilters, bson.M{"recipient.account_number": accountNumber})
	}
	if len(recipientFilters) == 0 {
		return nil, nil
	}

	collection := r.db.Collection(HistoryCollectionName)

	filter := bson.M{
		"account_id": accountID,
		"amount":     amount,
		"status":     shared.TransferStatusCompleted,
		"created_at": bson.M{"$gt": since},
		"$or":        recipientFilters,
	}
	opts := options.Find().SetSort(bson.M{"created_at": -1})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to find recent transfers to recipient",
			"account_id", accountID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to find recent transfers to recipient: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*history.Entry
	if err := cursor.All(ctx, &entries); err != nil {
		r.logger.Error("Failed to decode recent transfers",
			"account_id", accountID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to decode recent transfers: %w", err)
	}

	return entries, nil
}
