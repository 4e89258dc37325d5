package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/SscSPs/movie_review_app/internal/apperrors"
	"github.com/SscSPs/movie_review_app/internal/core/domain"
	portssvc "github.com/SscSPs/movie_review_app/internal/core/ports/services"
	"github.com/SscSPs/movie_review_app/internal/dto"
	"github.com/SscSPs/movie_review_app/internal/utils"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// authService implements the AuthSvcFacade. Every error it returns is an *apperrors.AppError.
type authService struct {
	BaseService
	accounts    portssvc.AccountSvcFacade
	hasher      portssvc.PasswordHasherSvc
	tokens      portssvc.TokenSvcFacade
	identity    portssvc.IdentityVerifierSvc
	linkByEmail bool
	analytics   *utils.PosthogClientWrapper
}

// AuthServiceOption is a functional option for configuring the auth service
type AuthServiceOption func(*authService)

// WithLinkByEmail controls whether a verified external login may sign into an
// existing password account that has the same email.
func WithLinkByEmail(enabled bool) AuthServiceOption {
	return func(s *authService) {
		s.linkByEmail = enabled
	}
}

// WithAnalytics enables product analytics events for successful sign-ins.
func WithAnalytics(client *utils.PosthogClientWrapper) AuthServiceOption {
	return func(s *authService) {
		s.analytics = client
	}
}

// NewAuthService creates a new auth service with the provided options
func NewAuthService(
	accounts portssvc.AccountSvcFacade,
	hasher portssvc.PasswordHasherSvc,
	tokens portssvc.TokenSvcFacade,
	identity portssvc.IdentityVerifierSvc,
	options ...AuthServiceOption,
) portssvc.AuthSvcFacade {
	svc := &authService{
		accounts:    accounts,
		hasher:      hasher,
		tokens:      tokens,
		identity:    identity,
		linkByEmail: true,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.TrimSpace(req.Email)
	displayName := strings.TrimSpace(req.Name())
	if email == "" || displayName == "" || req.Password == "" {
		return nil, apperrors.NewMissingFieldsError("Email, username and password are required")
	}
	if err := validate.Var(email, "email"); err != nil {
		return nil, apperrors.NewInvalidInputError("Email address is not valid", err)
	}

	if _, err := s.accounts.GetAccountByEmail(ctx, email); err == nil {
		return nil, apperrors.NewAccountExistsError(nil)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewInternalServerError(err)
	}

	password := req.Password
	account, err := s.accounts.CreateAccount(ctx, dto.CreateAccountParams{
		Email:       email,
		DisplayName: displayName,
		RawPassword: &password,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDuplicate):
			// Lost a race with a concurrent registration for the same email.
			return nil, apperrors.NewAccountExistsError(err)
		case errors.Is(err, apperrors.ErrValidation):
			return nil, apperrors.NewInvalidInputError("Registration details are not valid", err)
		}
		return nil, apperrors.NewInternalServerError(err)
	}

	s.track(account.AccountID, "user_registered", nil)
	return s.issue(ctx, account)
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, apperrors.NewMissingFieldsError("Email and password are required")
	}

	account, err := s.accounts.GetAccountByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "Login attempt for unknown email")
			return nil, apperrors.NewInvalidCredentialsError()
		}
		return nil, apperrors.NewInternalServerError(err)
	}

	// External accounts carry a random placeholder hash, so a password login fails here.
	if !s.hasher.Verify(req.Password, account.PasswordHash) {
		s.LogDebug(ctx, "Login attempt with wrong password", slog.String("account_id", account.AccountID))
		return nil, apperrors.NewInvalidCredentialsError()
	}

	s.track(account.AccountID, "user_logged_in", nil)
	return s.issue(ctx, account)
}

func (s *authService) ExternalLogin(ctx context.Context, assertion string) (*dto.AuthResponse, error) {
	if strings.TrimSpace(assertion) == "" {
		return nil, apperrors.NewMissingAssertionError("Google credential is required")
	}

	identity, err := s.identity.VerifyIdentity(ctx, assertion)
	if err != nil {
		s.LogWarn(ctx, "External identity verification failed", slog.String("error", err.Error()))
		return nil, apperrors.NewIdentityVerificationError(err)
	}
	if !identity.EmailVerified {
		s.LogWarn(ctx, "External identity has an unverified email", slog.String("provider", string(identity.Provider)))
		return nil, apperrors.NewIdentityVerificationError(apperrors.ErrIdentityVerification)
	}

	account, err := s.accounts.GetAccountByEmail(ctx, identity.Email)
	switch {
	case err == nil:
		if !account.ExternallyAuthenticated && !s.linkByEmail {
			return nil, apperrors.NewAccountExistsError(nil)
		}
	case errors.Is(err, apperrors.ErrNotFound):
		account, err = s.createExternalAccount(ctx, identity)
		if err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.NewInternalServerError(err)
	}

	s.track(account.AccountID, "user_external_login", map[string]any{"provider": string(identity.Provider)})
	return s.issue(ctx, account)
}

func (s *authService) createExternalAccount(ctx context.Context, identity *domain.ExternalIdentity) (*domain.Account, error) {
	displayName := domain.TruncateDisplayName(identity.DisplayName)
	if displayName == "" {
		local, _, _ := strings.Cut(identity.Email, "@")
		displayName = domain.TruncateDisplayName(local)
	}

	account, err := s.accounts.CreateAccount(ctx, dto.CreateAccountParams{
		Email:                   identity.Email,
		DisplayName:             displayName,
		ExternallyAuthenticated: true,
		ProfileImageURL:         identity.PictureURL,
	})
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, apperrors.ErrDuplicate) {
		return nil, apperrors.NewInternalServerError(err)
	}

	// A concurrent first login created the account; use the winner.
	existing, readErr := s.accounts.GetAccountByEmail(ctx, identity.Email)
	if readErr != nil {
		return nil, apperrors.NewInternalServerError(readErr)
	}
	if !existing.ExternallyAuthenticated && !s.linkByEmail {
		return nil, apperrors.NewAccountExistsError(err)
	}
	return existing, nil
}

func (s *authService) GetCurrentUser(ctx context.Context, accountID string) (*dto.UserResponse, error) {
	account, err := s.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewAccountNotFoundError(err)
		}
		return nil, apperrors.NewInternalServerError(err)
	}
	user := dto.ToUserResponse(account)
	return &user, nil
}

func (s *authService) issue(ctx context.Context, account *domain.Account) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.tokens.IssueToken(ctx, account.AccountID)
	if err != nil {
		return nil, apperrors.NewInternalServerError(err)
	}
	return &dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
		User:      dto.ToUserResponse(account),
	}, nil
}

func (s *authService) track(accountID, event string, properties map[string]any) {
	s.analytics.Enqueue(accountID, event, properties)
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)
