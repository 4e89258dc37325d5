package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/movie_review_app/internal/apperrors"
	"github.com/SscSPs/movie_review_app/internal/core/domain"
	portssvc "github.com/SscSPs/movie_review_app/internal/core/ports/services"
	"github.com/SscSPs/movie_review_app/internal/core/services"
	"github.com/SscSPs/movie_review_app/internal/handlers"
	"github.com/SscSPs/movie_review_app/internal/middleware"
	"github.com/SscSPs/movie_review_app/internal/platform/config"
	"github.com/SscSPs/movie_review_app/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock IdentityVerifier ---
type MockIdentityVerifier struct {
	mock.Mock
}

func (m *MockIdentityVerifier) VerifyIdentity(ctx context.Context, assertion string) (*domain.ExternalIdentity, error) {
	args := m.Called(ctx, assertion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExternalIdentity), args.Error(1)
}

// --- Mock GoogleOAuthHandlerSvc ---
type MockGoogleOAuthService struct {
	mock.Mock
}

func (m *MockGoogleOAuthService) GetGoogleLoginURL(ctx context.Context, state string) string {
	args := m.Called(ctx, state)
	return args.String(0)
}

func (m *MockGoogleOAuthService) ExchangeCodeForIDToken(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

var (
	_ portssvc.IdentityVerifierSvc         = (*MockIdentityVerifier)(nil)
	_ portssvc.GoogleOAuthHandlerSvcFacade = (*MockGoogleOAuthService)(nil)
)

// --- Test Suite Setup ---

type AuthHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	repo     *testutil.MemoryAccountRepository
	identity *MockIdentityVerifier
	google   *MockGoogleOAuthService
}

func (suite *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:           "handler-test-secret-long-enough-for-hs256",
		JWTIssuer:           "movie-review-app",
		JWTExpiryDuration:   24 * time.Hour,
		BcryptCost:          4,
		LinkExternalByEmail: true,
		AuthRateLimit:       "1000-M",
	}

	suite.repo = testutil.NewMemoryAccountRepository()
	suite.identity = new(MockIdentityVerifier)
	suite.google = new(MockGoogleOAuthService)

	hasher := services.NewPasswordHasher(cfg.BcryptCost)
	container := &portssvc.ServiceContainer{
		Account:            services.NewAccountService(suite.repo, hasher),
		Token:              services.NewTokenService(cfg),
		Identity:           suite.identity,
		GoogleOAuthHandler: suite.google,
	}
	container.Auth = services.NewAuthService(container.Account, hasher, container.Token, container.Identity)

	suite.router = gin.New()
	suite.router.Use(middleware.StructuredLoggingMiddleware(testutil.DiscardLogger()))
	suite.Require().NoError(handlers.RegisterRoutes(suite.router, cfg, container, nil))
}

func (suite *AuthHandlerTestSuite) do(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AuthHandlerTestSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func (suite *AuthHandlerTestSuite) assertError(w *httptest.ResponseRecorder, status int, kind apperrors.Kind) map[string]any {
	suite.Equal(status, w.Code, w.Body.String())
	body := suite.decode(w)
	suite.Equal(string(kind), body["error"])
	suite.NotEmpty(body["message"])
	return body
}

func assertNoPasswordField(suite *AuthHandlerTestSuite, raw string) {
	suite.NotContains(strings.ToLower(raw), "password")
	suite.NotContains(raw, "$2a$")
}

// --- Test Cases ---

func (suite *AuthHandlerTestSuite) TestConcreteScenario() {
	w := suite.do(http.MethodPost, "/auth/register", `{"email":"a@b.com","displayName":"Al","password":"Secret123!"}`, "")
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	registered := suite.decode(w)
	suite.NotEmpty(registered["token"])
	suite.Equal("a@b.com", registered["user"].(map[string]any)["email"])
	assertNoPasswordField(suite, w.Body.String())

	w = suite.do(http.MethodPost, "/auth/register", `{"email":"A@B.com","displayName":"Al","password":"Secret123!"}`, "")
	suite.assertError(w, http.StatusBadRequest, apperrors.KindAccountExists)

	w = suite.do(http.MethodPost, "/auth/login", `{"email":"a@b.com","password":"wrong"}`, "")
	suite.assertError(w, http.StatusBadRequest, apperrors.KindInvalidCredentials)

	w = suite.do(http.MethodPost, "/auth/login", `{"email":"a@b.com","password":"Secret123!"}`, "")
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	loggedIn := suite.decode(w)
	token, _ := loggedIn["token"].(string)
	suite.Require().NotEmpty(token)

	w = suite.do(http.MethodGet, "/auth/me", "", token)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	me := suite.decode(w)
	suite.Equal("Al", me["username"])
	suite.Equal(registered["user"].(map[string]any)["id"], me["id"])
	assertNoPasswordField(suite, w.Body.String())

	w = suite.do(http.MethodGet, "/auth/me", "", flipChar(token))
	suite.assertError(w, http.StatusUnauthorized, apperrors.KindUnauthenticated)
}

// flipChar changes one character in the signature segment of a JWT.
func flipChar(token string) string {
	b := []byte(token)
	i := len(b) - 5
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}

func (suite *AuthHandlerTestSuite) TestRegister_UsernameFieldAndMissingFields() {
	w := suite.do(http.MethodPost, "/auth/register", `{"email":"u@b.com","username":"Uma","password":"pw"}`, "")
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	suite.Equal("Uma", suite.decode(w)["user"].(map[string]any)["username"])

	w = suite.do(http.MethodPost, "/auth/register", `{"email":"x@b.com","password":"pw"}`, "")
	suite.assertError(w, http.StatusBadRequest, apperrors.KindMissingFields)

	w = suite.do(http.MethodPost, "/auth/register", "", "")
	suite.assertError(w, http.StatusBadRequest, apperrors.KindMissingFields)
}

func (suite *AuthHandlerTestSuite) TestRegister_InvalidInput() {
	w := suite.do(http.MethodPost, "/auth/register", `{"email":`, "")
	suite.assertError(w, http.StatusBadRequest, apperrors.KindInvalidInput)

	long := strings.Repeat("p", 73)
	w = suite.do(http.MethodPost, "/auth/register", `{"email":"l@b.com","username":"L","password":"`+long+`"}`, "")
	suite.assertError(w, http.StatusBadRequest, apperrors.KindInvalidInput)

	w = suite.do(http.MethodPost, "/auth/register", `{"email":"nope","username":"L","password":"pw"}`, "")
	suite.assertError(w, http.StatusBadRequest, apperrors.KindInvalidInput)
}

func (suite *AuthHandlerTestSuite) TestRegister_MultiBytePasswordOverBcryptLimit() {
	// 40 characters pass the binding limit but are 80 bytes.
	multiByte := strings.Repeat("é", 40)

	w := suite.do(http.MethodPost, "/auth/register", `{"email":"x@y.com","username":"X","password":"`+multiByte+`"}`, "")

	suite.assertError(w, http.StatusBadRequest, apperrors.KindInvalidInput)
	suite.Equal(0, suite.repo.Count())
}

func (suite *AuthHandlerTestSuite) TestLogin_OverlongPasswordIsInvalidCredentials() {
	suite.Require().Equal(http.StatusCreated,
		suite.do(http.MethodPost, "/auth/register", `{"email":"a@b.com","username":"Al","password":"Secret123!"}`, "").Code)

	w := suite.do(http.MethodPost, "/auth/login", `{"email":"a@b.com","password":"`+strings.Repeat("p", 73)+`"}`, "")

	suite.assertError(w, http.StatusBadRequest, apperrors.KindInvalidCredentials)
}

func (suite *AuthHandlerTestSuite) TestGoogle_LongNameIsTruncated() {
	suite.identity.On("VerifyIdentity", mock.Anything, "long-name").Return(&domain.ExternalIdentity{
		Provider: domain.ProviderGoogle, Email: "long@example.com", EmailVerified: true,
		DisplayName: strings.Repeat("a", 150),
	}, nil)

	w := suite.do(http.MethodPost, "/auth/google", `{"credential":"long-name"}`, "")

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	user := suite.decode(w)["user"].(map[string]any)
	suite.Equal(strings.Repeat("a", domain.MaxDisplayNameLength), user["username"])
}

func (suite *AuthHandlerTestSuite) TestLogin_SameBodyForUnknownEmailAndWrongPassword() {
	suite.Require().Equal(http.StatusCreated,
		suite.do(http.MethodPost, "/auth/register", `{"email":"a@b.com","username":"Al","password":"Secret123!"}`, "").Code)

	wrong := suite.do(http.MethodPost, "/auth/login", `{"email":"a@b.com","password":"nope"}`, "")
	unknown := suite.do(http.MethodPost, "/auth/login", `{"email":"ghost@b.com","password":"nope"}`, "")

	suite.Equal(wrong.Code, unknown.Code)
	suite.JSONEq(wrong.Body.String(), unknown.Body.String())
}

func (suite *AuthHandlerTestSuite) TestMe_RequiresBearerToken() {
	suite.assertError(suite.do(http.MethodGet, "/auth/me", "", ""), http.StatusUnauthorized, apperrors.KindUnauthenticated)
	suite.assertError(suite.do(http.MethodGet, "/auth/me", "", "not-a-token"), http.StatusUnauthorized, apperrors.KindUnauthenticated)
}

func (suite *AuthHandlerTestSuite) TestMe_AccountGone() {
	cfg := &config.Config{JWTSecret: "handler-test-secret-long-enough-for-hs256", JWTIssuer: "movie-review-app", JWTExpiryDuration: time.Hour}
	token, _, err := services.NewTokenService(cfg).IssueToken(context.Background(), "3f1b7a52-0000-4000-8000-000000000000")
	suite.Require().NoError(err)

	w := suite.do(http.MethodGet, "/auth/me", "", token)

	suite.assertError(w, http.StatusNotFound, apperrors.KindAccountNotFound)
}

func (suite *AuthHandlerTestSuite) TestGoogle_CreatesThenReusesAccount() {
	suite.identity.On("VerifyIdentity", mock.Anything, "google-id-token").Return(&domain.ExternalIdentity{
		Provider:      domain.ProviderGoogle,
		Subject:       "1122334455",
		Email:         "g@example.com",
		EmailVerified: true,
		DisplayName:   "Gee",
		PictureURL:    "https://lh3.googleusercontent.com/a/pic",
	}, nil)

	first := suite.do(http.MethodPost, "/auth/google", `{"credential":"google-id-token"}`, "")
	suite.Require().Equal(http.StatusOK, first.Code, first.Body.String())
	user := suite.decode(first)["user"].(map[string]any)
	suite.Equal("https://lh3.googleusercontent.com/a/pic", user["profilePicture"])
	assertNoPasswordField(suite, first.Body.String())

	second := suite.do(http.MethodPost, "/auth/google", `{"credential":"google-id-token"}`, "")
	suite.Require().Equal(http.StatusOK, second.Code)
	suite.Equal(user["id"], suite.decode(second)["user"].(map[string]any)["id"])
	suite.Equal(1, suite.repo.Count())
}

func (suite *AuthHandlerTestSuite) TestGoogle_Failures() {
	suite.assertError(suite.do(http.MethodPost, "/auth/google", `{}`, ""), http.StatusBadRequest, apperrors.KindMissingAssertion)

	suite.identity.On("VerifyIdentity", mock.Anything, "forged").Return(nil, apperrors.ErrIdentityVerification)
	body := suite.assertError(suite.do(http.MethodPost, "/auth/google", `{"credential":"forged"}`, ""),
		http.StatusInternalServerError, apperrors.KindIdentityVerificationFailed)
	suite.NotContains(body["message"], "forged")
}

func (suite *AuthHandlerTestSuite) TestGoogleExchangeCode() {
	suite.google.On("ExchangeCodeForIDToken", mock.Anything, "good-code").Return("google-id-token", nil)
	suite.google.On("ExchangeCodeForIDToken", mock.Anything, "stale-code").Return("", services.ErrCodeExchange)
	suite.identity.On("VerifyIdentity", mock.Anything, "google-id-token").Return(&domain.ExternalIdentity{
		Provider: domain.ProviderGoogle, Email: "g@example.com", EmailVerified: true, DisplayName: "Gee",
	}, nil)

	w := suite.do(http.MethodPost, "/auth/google/exchange-code", `{"code":"good-code"}`, "")
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.NotEmpty(suite.decode(w)["token"])

	suite.assertError(suite.do(http.MethodPost, "/auth/google/exchange-code", `{"code":"stale-code"}`, ""),
		http.StatusBadRequest, apperrors.KindInvalidInput)
	suite.assertError(suite.do(http.MethodPost, "/auth/google/exchange-code", `{"code":""}`, ""),
		http.StatusBadRequest, apperrors.KindMissingAssertion)
}

func (suite *AuthHandlerTestSuite) TestGoogleLoginURL() {
	suite.google.On("GetGoogleLoginURL", mock.Anything, mock.AnythingOfType("string")).
		Return("https://accounts.google.com/o/oauth2/auth?state=x")

	w := suite.do(http.MethodGet, "/auth/google/url", "", "")

	suite.Require().Equal(http.StatusOK, w.Code)
	body := suite.decode(w)
	suite.Equal("https://accounts.google.com/o/oauth2/auth?state=x", body["url"])
	suite.Len(body["state"], 32)
}

func (suite *AuthHandlerTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", "", "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func TestAuthHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}
