package handlers

import (
	"fmt"
	"net/http"

	"github.com/SscSPs/movie_review_app/cmd/docs"
	portssvc "github.com/SscSPs/movie_review_app/internal/core/ports/services"
	"github.com/SscSPs/movie_review_app/internal/middleware"
	"github.com/SscSPs/movie_review_app/internal/platform/config"
	"github.com/SscSPs/movie_review_app/internal/utils"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	analytics *utils.PosthogClientWrapper,
) error {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	if err := registerAuthRoutes(r, cfg, services, analytics); err != nil {
		return err
	}

	setupSwaggerRoutes(r, cfg)
	return nil
}

// registerAuthRoutes sets up the /auth group. Anonymous endpoints share one per-IP rate limit.
func registerAuthRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	analytics *utils.PosthogClientWrapper,
) error {
	ipLimiter, err := middleware.NewMemoryRateLimiter(cfg.AuthRateLimit)
	if err != nil {
		return fmt.Errorf("invalid AUTH_RATE_LIMIT %q: %w", cfg.AuthRateLimit, err)
	}
	limit := middleware.RateLimit(ipLimiter)

	authHandler := NewAuthHandler(services.Auth)
	googleHandler := NewGoogleOAuthHandler(services.Auth, services.GoogleOAuthHandler)

	auth := r.Group("/auth")
	{
		auth.POST("/register", limit, authHandler.Register)
		auth.POST("/login", limit, authHandler.Login)
		auth.POST("/google", limit, googleHandler.LoginGoogle)
		auth.GET("/google/url", limit, googleHandler.GoogleLoginURL)
		auth.POST("/google/exchange-code", limit, googleHandler.ExchangeCodeGoogle)

		auth.GET("/me",
			middleware.AuthMiddleware(services.Token),
			middleware.PosthogMiddleware(analytics),
			authHandler.Me,
		)
	}
	return nil
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
