package repositories

import (
	"context"

	"github.com/SscSPs/movie_review_app/internal/core/domain"
)

// AccountReader defines read operations for account data.
// Implementations return apperrors.ErrNotFound when no account matches.
type AccountReader interface {
	// FindAccountByID retrieves an account by its identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByEmail retrieves an account by its normalized email.
	FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. It returns apperrors.ErrDuplicate
	// when the storage uniqueness constraint on email rejects the insert.
	SaveAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
