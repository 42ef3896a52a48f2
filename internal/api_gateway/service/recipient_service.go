package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/odysseus-transfer-ledger/internal/domain/recipient"
)

// RecipientServiceImpl implements the RecipientService interface
type RecipientServiceImpl struct {
	recipientRepo recipient.Repository
	logger        *slog.Logger
}

// NewRecipientService creates a new recipient service
func NewRecipientService(logger *slog.Logger, recipientRepo recipient.Repository) RecipientService {
	return &RecipientServiceImpl{
		recipientRepo: recipientRepo,
		logger:        logger,
	}
}

// ListRecipients returns saved recipients, most recently used first
func (s *RecipientServiceImpl) ListRecipients(ctx context.Context) ([]*recipient.Recipient, error) {
	return s.recipientRepo.List(ctx)
}

// SaveRecipient stores a new saved recipient. The recipient must be reachable
// by at least one of account number or phone number
func (s *RecipientServiceImpl) SaveRecipient(ctx context.Context, name, accountNumber, phoneNumber, bankName string) (*recipient.Recipient, error) {
	if accountNumber == "" && phoneNumber == "" {
		return nil, recipient.ErrUnreachableRecipient
	}

	now := time.Now()
	rec := &recipient.Recipient{
		ID:            uuid.New(),
		Name:          name,
		AccountNumber: accountNumber,
		PhoneNumber:   phoneNumber,
		BankName:      bankName,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.recipientRepo.Create(ctx, rec); err != nil {
		s.logger.Error("Failed to save recipient", "name", name, "error", err)
		return nil, err
	}

	s.logger.Info("Recipient saved",
		"recipient_id", rec.ID.String(),
		"bank_name", rec.BankName,
	)
	return rec, nil
}

// SetFavorite flips the favorite flag and returns the updated recipient
func (s *RecipientServiceImpl) SetFavorite(ctx context.Context, id uuid.UUID, favorite bool) (*recipient.Recipient, error) {
	if err := s.recipientRepo.SetFavorite(ctx, id, favorite); err != nil {
		return nil, err
	}

	rec, err := s.recipientRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to reload recipient after favorite update",
			"recipient_id", id.String(),
			"error", err,
		)
		return nil, err
	}

	return rec, nil
}

// LookupRecipient resolves a recipient by account number or phone number
func (s *RecipientServiceImpl) LookupRecipient(ctx context.Context, accountNumber, phoneNumber string) (*recipient.Recipient, error) {
	rec, err := s.recipientRepo.Lookup(ctx, accountNumber, phoneNumber)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Recipient resolved",
		"recipient_id", rec.ID.String(),
		"bank_name", rec.BankName,
	)
	return rec, nil
}
