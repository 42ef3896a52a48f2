package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/odysseus-transfer-ledger/internal/domain/account"
	"github.com/odysseus-transfer-ledger/internal/domain/transfer"
)

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	accountRepo account.Repository
}

// NewAccountService creates a new account service
func NewAccountService(accountRepo account.Repository) AccountService {
	return &AccountServiceImpl{
		accountRepo: accountRepo,
	}
}

// CreateAccount creates a new account with the given details, checking for duplicate account numbers
func (s *AccountServiceImpl) CreateAccount(ctx context.Context, ownerName, accountNumber, phoneNumber string, initialBalance int64, currency string, limits account.Limits) (*account.Account, error) {
	existingAccount, err := s.accountRepo.GetByAccountNumber(ctx, accountNumber)
	if err != nil && !errors.Is(err, account.ErrAccountNotFound{}) {
		return nil, err
	}
	if existingAccount != nil {
		return nil, account.ErrDuplicateAccountNumber{AccountNumber: accountNumber}
	}

	acc, err := account.NewAccount(ownerName, accountNumber, phoneNumber, initialBalance, currency, limits)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Create(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}

// GetAccountByID retrieves an account by its ID, returns ErrAccountNotFound if not found
func (s *AccountServiceImpl) GetAccountByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return s.accountRepo.GetByID(ctx, id)
}

// GetAccountLimits returns the account alongside its limit usage projected to
// now. The projection handles window rollover without writing the account.
func (s *AccountServiceImpl) GetAccountLimits(ctx context.Context, id uuid.UUID, now time.Time) (*account.Account, transfer.Ledger, error) {
	acc, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, transfer.Ledger{}, err
	}
	return acc, acc.LimitsLedger(now), nil
}
