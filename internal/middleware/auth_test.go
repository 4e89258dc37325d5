package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SscSPs/movie_review_app/internal/apperrors"
	"github.com/SscSPs/movie_review_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) VerifyToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

type AuthMiddlewareTestSuite struct {
	suite.Suite
	router   *gin.Engine
	verifier *MockTokenVerifier
}

func (suite *AuthMiddlewareTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.verifier = new(MockTokenVerifier)
	suite.router = gin.New()
	suite.router.GET("/auth/me", middleware.AuthMiddleware(suite.verifier), func(c *gin.Context) {
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, userID)
	})
}

func (suite *AuthMiddlewareTestSuite) do(header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AuthMiddlewareTestSuite) assertUnauthenticated(w *httptest.ResponseRecorder) {
	suite.Equal(http.StatusUnauthorized, w.Code)
	var body apperrors.AppError
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(apperrors.KindUnauthenticated, body.Kind)
}

func (suite *AuthMiddlewareTestSuite) TestValidToken_AttachesUserID() {
	suite.verifier.On("VerifyToken", mock.Anything, "good.token.value").Return("account-42", nil).Once()

	w := suite.do("Bearer good.token.value")

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("account-42", w.Body.String())
	suite.verifier.AssertExpectations(suite.T())
}

func (suite *AuthMiddlewareTestSuite) TestSchemeIsCaseInsensitive() {
	suite.verifier.On("VerifyToken", mock.Anything, "good.token.value").Return("account-42", nil).Once()

	w := suite.do("bearer good.token.value")

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *AuthMiddlewareTestSuite) TestMissingHeader() {
	suite.assertUnauthenticated(suite.do(""))
	suite.verifier.AssertNotCalled(suite.T(), "VerifyToken", mock.Anything, mock.Anything)
}

func (suite *AuthMiddlewareTestSuite) TestMalformedHeader() {
	for _, header := range []string{"good.token.value", "Basic dXNlcjpwYXNz", "Bearer", "Bearer a b"} {
		suite.assertUnauthenticated(suite.do(header))
	}
	suite.verifier.AssertNotCalled(suite.T(), "VerifyToken", mock.Anything, mock.Anything)
}

func (suite *AuthMiddlewareTestSuite) TestRejectedToken() {
	suite.verifier.On("VerifyToken", mock.Anything, "tampered").Return("", apperrors.ErrTokenInvalid).Once()

	suite.assertUnauthenticated(suite.do("Bearer tampered"))
}

func TestAuthMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}
