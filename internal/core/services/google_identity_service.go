package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/movie_review_app/internal/apperrors"
	"github.com/SscSPs/movie_review_app/internal/core/domain"
	portssvc "github.com/SscSPs/movie_review_app/internal/core/ports/services"
	"github.com/SscSPs/movie_review_app/internal/platform/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

var googleIssuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

// ErrCodeExchange is returned when Google rejects an authorization code.
var ErrCodeExchange = errors.New("authorization code exchange failed")

// IDTokenValidator checks the signature, audience and expiry of a Google ID token.
type IDTokenValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// googleIdentityVerifier implements IdentityVerifierSvc for Google ID tokens.
// It never touches account storage.
type googleIdentityVerifier struct {
	audience string
	validate IDTokenValidator
}

// NewGoogleIdentityVerifier verifies assertions against cfg.GoogleClientID using Google's published keys.
func NewGoogleIdentityVerifier(cfg *config.Config) portssvc.IdentityVerifierSvc {
	return NewGoogleIdentityVerifierWithValidator(cfg.GoogleClientID, idtoken.Validate)
}

// NewGoogleIdentityVerifierWithValidator is NewGoogleIdentityVerifier with a custom signature check.
func NewGoogleIdentityVerifierWithValidator(audience string, validate IDTokenValidator) portssvc.IdentityVerifierSvc {
	return &googleIdentityVerifier{audience: audience, validate: validate}
}

func (v *googleIdentityVerifier) VerifyIdentity(ctx context.Context, assertion string) (*domain.ExternalIdentity, error) {
	if strings.TrimSpace(assertion) == "" {
		return nil, fmt.Errorf("empty assertion: %w", apperrors.ErrIdentityVerification)
	}
	if v.audience == "" {
		return nil, fmt.Errorf("google client ID is not configured: %w", apperrors.ErrIdentityVerification)
	}

	payload, err := v.validate(ctx, assertion, v.audience)
	if err != nil {
		return nil, fmt.Errorf("google ID token validation failed: %v: %w", err, apperrors.ErrIdentityVerification)
	}
	if !googleIssuers[payload.Issuer] {
		return nil, fmt.Errorf("unexpected issuer %q: %w", payload.Issuer, apperrors.ErrIdentityVerification)
	}

	email := claimString(payload.Claims, "email")
	if email == "" {
		return nil, fmt.Errorf("assertion carries no email: %w", apperrors.ErrIdentityVerification)
	}

	return &domain.ExternalIdentity{
		Provider:      domain.ProviderGoogle,
		Subject:       payload.Subject,
		Email:         domain.NormalizeEmail(email),
		EmailVerified: claimBool(payload.Claims, "email_verified"),
		DisplayName:   claimString(payload.Claims, "name"),
		PictureURL:    claimString(payload.Claims, "picture"),
	}, nil
}

func claimString(claims map[string]interface{}, key string) string {
	s, _ := claims[key].(string)
	return s
}

// email_verified arrives as a bool, but older tokens encode it as a string.
func claimBool(claims map[string]interface{}, key string) bool {
	switch v := claims[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	}
	return false
}

// --- GoogleOAuthHandlerSvcFacade Implementation ---

// googleOAuthHandlerService implements the GoogleOAuthHandlerSvcFacade.
type googleOAuthHandlerService struct {
	oauth2Config *oauth2.Config
}

// NewGoogleOAuthHandlerService creates a new instance of googleOAuthHandlerService.
func NewGoogleOAuthHandlerService(cfg *config.Config) portssvc.GoogleOAuthHandlerSvcFacade {
	return NewGoogleOAuthHandlerServiceWithEndpoint(cfg, google.Endpoint)
}

// NewGoogleOAuthHandlerServiceWithEndpoint points the code exchange at a different token endpoint.
func NewGoogleOAuthHandlerServiceWithEndpoint(cfg *config.Config, endpoint oauth2.Endpoint) portssvc.GoogleOAuthHandlerSvcFacade {
	return &googleOAuthHandlerService{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     endpoint,
		},
	}
}

// GetGoogleLoginURL returns the URL to redirect the user to for Google login.
func (s *googleOAuthHandlerService) GetGoogleLoginURL(ctx context.Context, state string) string {
	return s.oauth2Config.AuthCodeURL(state)
}

// ExchangeCodeForIDToken exchanges an OAuth authorization code and returns the ID token from the response.
func (s *googleOAuthHandlerService) ExchangeCodeForIDToken(ctx context.Context, code string) (string, error) {
	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return "", fmt.Errorf("%w: %s", ErrCodeExchange, retrieveErr.ErrorCode)
		}
		return "", fmt.Errorf("failed to exchange oauth code for token: %w", err)
	}

	idToken, ok := token.Extra("id_token").(string)
	if !ok || idToken == "" {
		return "", fmt.Errorf("token response has no id_token: %w", apperrors.ErrIdentityVerification)
	}
	return idToken, nil
}

var (
	_ portssvc.IdentityVerifierSvc         = (*googleIdentityVerifier)(nil)
	_ portssvc.GoogleOAuthHandlerSvcFacade = (*googleOAuthHandlerService)(nil)
)
