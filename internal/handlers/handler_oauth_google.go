package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/movie_review_app/internal/apperrors"
	portssvc "github.com/SscSPs/movie_review_app/internal/core/ports/services"
	"github.com/SscSPs/movie_review_app/internal/core/services"
	"github.com/SscSPs/movie_review_app/internal/dto"
	"github.com/SscSPs/movie_review_app/internal/middleware"
	"github.com/SscSPs/movie_review_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// GoogleOAuthHandler handles Google sign-in requests.
// Both flows end in the same external login path of the auth service.
type GoogleOAuthHandler struct {
	authService        portssvc.AuthSvcFacade
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
}

// NewGoogleOAuthHandler creates a new instance of GoogleOAuthHandler.
func NewGoogleOAuthHandler(authService portssvc.AuthSvcFacade, googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		authService:        authService,
		googleOAuthService: googleOAuthService,
	}
}

// GoogleLoginURLResponse carries the consent URL and the state the frontend must check on return.
type GoogleLoginURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// LoginGoogle godoc
// @Summary Sign in with a Google ID token
// @Description Verifies the credential issued by Google Identity Services, creating the account on first use.
// @Tags oauth
// @Accept json
// @Produce json
// @Param credential body dto.GoogleLoginRequest true "Google ID token"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse "MissingAssertion or AccountExists"
// @Failure 500 {object} ErrorResponse "IdentityVerificationFailed"
// @Router /auth/google [post]
func (h *GoogleOAuthHandler) LoginGoogle(c *gin.Context) {
	var req dto.GoogleLoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	resp, err := h.authService.ExternalLogin(c.Request.Context(), req.Credential)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GoogleLoginURL godoc
// @Summary Google consent URL
// @Description Returns the Google authorization URL for the redirect flow and the state value embedded in it.
// @Tags oauth
// @Produce json
// @Success 200 {object} GoogleLoginURLResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/url [get]
func (h *GoogleOAuthHandler) GoogleLoginURL(c *gin.Context) {
	state, err := utils.GenerateSecureRandomString(16)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, GoogleLoginURLResponse{
		URL:   h.googleOAuthService.GetGoogleLoginURL(c.Request.Context(), state),
		State: state,
	})
}

// ExchangeCodeGoogle godoc
// @Summary Exchange authorization code
// @Description Exchanges a Google authorization code for an ID token and signs the user in with it.
// @Tags oauth
// @Accept json
// @Produce json
// @Param code body dto.ExchangeCodeRequest true "Authorization code"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse "MissingAssertion or InvalidInput"
// @Failure 500 {object} ErrorResponse "IdentityVerificationFailed"
// @Router /auth/google/exchange-code [post]
func (h *GoogleOAuthHandler) ExchangeCodeGoogle(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req dto.ExchangeCodeRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		respondWithError(c, apperrors.NewMissingAssertionError("Authorization code is required"))
		return
	}

	idToken, err := h.googleOAuthService.ExchangeCodeForIDToken(ctx, req.Code)
	if err != nil {
		logger.Warn("Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		if errors.Is(err, services.ErrCodeExchange) {
			respondWithError(c, apperrors.NewInvalidInputError("Invalid or expired authorization code", err))
			return
		}
		respondWithError(c, apperrors.NewIdentityVerificationError(err))
		return
	}

	resp, err := h.authService.ExternalLogin(ctx, idToken)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
