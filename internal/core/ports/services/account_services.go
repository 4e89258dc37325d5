package services

import (
	"context"

	"github.com/SscSPs/movie_review_app/internal/core/domain"
	"github.com/SscSPs/movie_review_app/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account by ID. Returns apperrors.ErrNotFound when absent.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountByEmail retrieves an account by email after normalizing it.
	// Returns apperrors.ErrNotFound when absent.
	GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount validates, hashes and stores a new account.
	// Returns apperrors.ErrDuplicate for an existing normalized email and
	// apperrors.ErrValidation when a local account has no password.
	CreateAccount(ctx context.Context, params dto.CreateAccountParams) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
