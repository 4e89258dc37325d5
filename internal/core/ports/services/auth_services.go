package services

import (
	"context"
	"time"

	"github.com/SscSPs/movie_review_app/internal/core/domain"
	"github.com/SscSPs/movie_review_app/internal/dto"
)

// PasswordHasherSvc is the one-way salted hash primitive used for credentials.
type PasswordHasherSvc interface {
	Hash(rawPassword string) (string, error)
	// Verify reports whether rawPassword matches passwordHash. A mismatch is false, not an error.
	Verify(rawPassword, passwordHash string) bool
}

// TokenVerifierSvc verifies bearer tokens. It is all the auth middleware needs.
type TokenVerifierSvc interface {
	// VerifyToken returns the account id carried by the token or apperrors.ErrTokenInvalid.
	VerifyToken(ctx context.Context, token string) (string, error)
}

// TokenSvcFacade defines the interface for bearer token management.
type TokenSvcFacade interface {
	TokenVerifierSvc
	// IssueToken creates a signed token for the account and returns its expiry.
	IssueToken(ctx context.Context, accountID string) (string, time.Time, error)
}

// IdentityVerifierSvc validates an identity provider assertion.
type IdentityVerifierSvc interface {
	// VerifyIdentity returns the verified identity or an error wrapping apperrors.ErrIdentityVerification.
	VerifyIdentity(ctx context.Context, assertion string) (*domain.ExternalIdentity, error)
}

// GoogleOAuthHandlerSvcFacade defines the Google authorization code flow.
type GoogleOAuthHandlerSvcFacade interface {
	// GetGoogleLoginURL returns the URL to redirect the user to for Google login.
	GetGoogleLoginURL(ctx context.Context, state string) string
	// ExchangeCodeForIDToken exchanges an authorization code and returns the raw ID token.
	ExchangeCodeForIDToken(ctx context.Context, code string) (string, error)
}

// AuthSvcFacade orchestrates registration, login and identity lookup.
// All errors it returns are *apperrors.AppError values.
type AuthSvcFacade interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	ExternalLogin(ctx context.Context, assertion string) (*dto.AuthResponse, error)
	GetCurrentUser(ctx context.Context, accountID string) (*dto.UserResponse, error)
}
