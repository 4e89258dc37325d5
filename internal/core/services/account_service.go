package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/movie_review_app/internal/apperrors"
	"github.com/SscSPs/movie_review_app/internal/core/domain"
	portsrepo "github.com/SscSPs/movie_review_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/movie_review_app/internal/core/ports/services"
	"github.com/SscSPs/movie_review_app/internal/dto"
	"github.com/SscSPs/movie_review_app/internal/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// placeholderPasswordBytes is the entropy of the never-disclosed password given to external accounts.
const placeholderPasswordBytes = 32

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	hasher      portssvc.PasswordHasherSvc
	now         func() time.Time
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountClock replaces the clock used for CreatedAt.
func WithAccountClock(now func() time.Time) AccountServiceOption {
	return func(s *accountService) {
		s.now = now
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, hasher portssvc.PasswordHasherSvc, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
		hasher:      hasher,
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

func (s *accountService) CreateAccount(ctx context.Context, params dto.CreateAccountParams) (*domain.Account, error) {
	email := domain.NormalizeEmail(params.Email)
	displayName := strings.TrimSpace(params.DisplayName)
	if email == "" || displayName == "" {
		return nil, fmt.Errorf("email and display name are required: %w", apperrors.ErrValidation)
	}

	rawPassword := ""
	switch {
	case params.RawPassword != nil && *params.RawPassword != "":
		rawPassword = *params.RawPassword
	case params.ExternallyAuthenticated:
		placeholder, err := utils.GenerateSecureRandomString(placeholderPasswordBytes)
		if err != nil {
			s.LogError(ctx, err, "Failed to generate placeholder password")
			return nil, fmt.Errorf("failed to generate placeholder password: %w", err)
		}
		rawPassword = placeholder
	default:
		return nil, fmt.Errorf("a password is required for local accounts: %w", apperrors.ErrValidation)
	}

	if len(rawPassword) > domain.MaxPasswordBytes {
		return nil, fmt.Errorf("password is longer than %d bytes: %w", domain.MaxPasswordBytes, apperrors.ErrValidation)
	}

	passwordHash, err := s.hasher.Hash(rawPassword)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := domain.Account{
		AccountID:               uuid.NewString(),
		Email:                   email,
		DisplayName:             displayName,
		PasswordHash:            passwordHash,
		ProfileImageURL:         params.ProfileImageURL,
		ExternallyAuthenticated: params.ExternallyAuthenticated,
		CreatedAt:               s.now().UTC(),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save account in repository", slog.String("account_id", account.AccountID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully in service",
		slog.String("account_id", account.AccountID),
		slog.Bool("externally_authenticated", account.ExternallyAuthenticated))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		// ErrNotFound is an expected outcome
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID in repository", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	normalized := domain.NormalizeEmail(email)
	if normalized == "" {
		return nil, apperrors.ErrNotFound
	}
	account, err := s.accountRepo.FindAccountByEmail(ctx, normalized)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by email in repository")
		}
		return nil, err
	}
	return account, nil
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)
