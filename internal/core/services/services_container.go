package services

import (
	portsrepo "github.com/SscSPs/movie_review_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/movie_review_app/internal/core/ports/services"
	"github.com/SscSPs/movie_review_app/internal/platform/config"
	"github.com/SscSPs/movie_review_app/internal/utils"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, analytics *utils.PosthogClientWrapper) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	hasher := NewPasswordHasher(cfg.BcryptCost)

	container.Account = NewAccountService(repos.AccountRepo, hasher)
	container.Token = NewTokenService(cfg)
	container.Identity = NewGoogleIdentityVerifier(cfg)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	container.Auth = NewAuthService(
		container.Account,
		hasher,
		container.Token,
		container.Identity,
		WithLinkByEmail(cfg.LinkExternalByEmail),
		WithAnalytics(analytics),
	)

	return container
}
