package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/movie_review_app/internal/apperrors"
	portssvc "github.com/SscSPs/movie_review_app/internal/core/ports/services"
	"github.com/SscSPs/movie_review_app/internal/platform/config"
	"github.com/SscSPs/movie_review_app/internal/utils"
)

// tokenService implements the TokenSvcFacade for stateless JWT bearer tokens.
type tokenService struct {
	BaseService
	secret string
	issuer string
	expiry time.Duration
	now    func() time.Time
}

// TokenServiceOption is a functional option for configuring the token service
type TokenServiceOption func(*tokenService)

// WithClock replaces the clock used for issuing and verifying tokens.
func WithClock(now func() time.Time) TokenServiceOption {
	return func(s *tokenService) {
		s.now = now
	}
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config, options ...TokenServiceOption) portssvc.TokenSvcFacade {
	svc := &tokenService{
		secret: cfg.JWTSecret,
		issuer: cfg.JWTIssuer,
		expiry: cfg.JWTExpiryDuration,
		now:    time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// IssueToken creates a new JWT access token for the given account.
func (s *tokenService) IssueToken(ctx context.Context, accountID string) (string, time.Time, error) {
	if accountID == "" {
		return "", time.Time{}, fmt.Errorf("issue token: %w", apperrors.ErrValidation)
	}
	issuedAt := s.now()
	token, err := utils.GenerateJWT(accountID, s.secret, issuedAt, s.expiry, s.issuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token", slog.String("account_id", accountID))
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, issuedAt.Add(s.expiry), nil
}

// VerifyToken returns the account id carried by a valid token.
// Every failure is reported as apperrors.ErrTokenInvalid.
func (s *tokenService) VerifyToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", apperrors.ErrTokenInvalid
	}
	claims, err := utils.ParseAndValidateJWT(token, s.secret, s.issuer, s.now())
	if err != nil {
		s.LogDebug(ctx, "Token rejected", slog.String("reason", err.Error()))
		return "", apperrors.ErrTokenInvalid
	}
	return claims.Subject, nil
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)
