package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/SscSPs/movie_review_app/internal/apperrors"
	"github.com/SscSPs/movie_review_app/internal/core/domain"
	portsrepo "github.com/SscSPs/movie_review_app/internal/core/ports/repositories"
)

// MemoryAccountRepository is an in-process AccountRepositoryFacade that enforces
// the same email uniqueness and column lengths as the accounts table.
type MemoryAccountRepository struct {
	mu      sync.RWMutex
	byID    map[string]domain.Account
	byEmail map[string]string

	// SaveHook, when set, runs before each insert while the lock is not held.
	SaveHook func(account domain.Account)
}

// NewMemoryAccountRepository returns an empty repository.
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{
		byID:    make(map[string]domain.Account),
		byEmail: make(map[string]string),
	}
}

var _ portsrepo.AccountRepositoryFacade = (*MemoryAccountRepository)(nil)

func (r *MemoryAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	if r.SaveHook != nil {
		r.SaveHook(account)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	email := domain.NormalizeEmail(account.Email)
	if utf8.RuneCountInString(email) > domain.MaxEmailLength {
		return errors.New("failed to save account: value too long for type character varying(254)")
	}
	if utf8.RuneCountInString(account.DisplayName) > domain.MaxDisplayNameLength {
		return errors.New("failed to save account: value too long for type character varying(100)")
	}
	if _, exists := r.byEmail[email]; exists {
		return fmt.Errorf("%w: save account violates accounts_email_key", apperrors.ErrDuplicate)
	}
	if _, exists := r.byID[account.AccountID]; exists {
		return fmt.Errorf("%w: save account violates accounts_pkey", apperrors.ErrDuplicate)
	}
	account.Email = email
	r.byID[account.AccountID] = account
	r.byEmail[email] = account.AccountID
	return nil
}

func (r *MemoryAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.byID[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &account, nil
}

func (r *MemoryAccountRepository) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	account := r.byID[id]
	return &account, nil
}

// Count returns the number of stored accounts.
func (r *MemoryAccountRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
