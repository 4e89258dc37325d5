package handlers

import (
	"errors"
	"io"
	"log/slog"

	"github.com/SscSPs/movie_review_app/internal/apperrors"
	"github.com/SscSPs/movie_review_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var errMissingAuthContext = apperrors.NewUnauthenticatedError("Authentication required")

// respondWithError writes err as the taxonomy error body. Unknown errors become InternalError.
func respondWithError(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if appErr.Code >= 500 {
		logger.Error("Request failed", slog.String("kind", string(appErr.Kind)), slog.Any("error", appErr.Err))
	} else {
		logger.Info("Request rejected", slog.String("kind", string(appErr.Kind)))
	}
	c.AbortWithStatusJSON(appErr.Code, appErr)
}

// bindJSON decodes the request body into req. An empty body leaves req zero-valued
// so that the service reports the missing fields.
func bindJSON(c *gin.Context, req any) error {
	err := c.ShouldBindJSON(req)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return apperrors.NewInvalidInputError("One or more fields are too long", err)
	}
	return apperrors.NewInvalidInputError("Invalid request body", err)
}
