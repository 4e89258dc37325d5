package middleware

import (
	"log/slog"
	"strings"

	"github.com/SscSPs/movie_review_app/internal/apperrors"
	portssvc "github.com/SscSPs/movie_review_app/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware creates a Gin middleware handler that requires a valid bearer token.
// Missing, malformed, expired or forged tokens all abort with 401 Unauthenticated.
func AuthMiddleware(tokenSvc portssvc.TokenVerifierSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			abortUnauthenticated(c, "Authorization header required")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			logger.Warn("Authorization header format invalid")
			abortUnauthenticated(c, "Authorization header format must be Bearer {token}")
			return
		}

		userID, err := tokenSvc.VerifyToken(c.Request.Context(), parts[1])
		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			abortUnauthenticated(c, "Invalid or expired token")
			return
		}

		enrichedLogger := logger.With(slog.String("user_id", userID))
		ctx := WithLogger(WithUserID(c.Request.Context(), userID), enrichedLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context, message string) {
	appErr := apperrors.NewUnauthenticatedError(message)
	c.AbortWithStatusJSON(appErr.Code, appErr)
}
