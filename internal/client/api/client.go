// Package api is the HTTP client for the authentication endpoints. Successful
// sign-ins are recorded in the session store; requests that need a token take
// it from there.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/movie_review_app/internal/apperrors"
	"github.com/SscSPs/movie_review_app/internal/client/session"
	"github.com/SscSPs/movie_review_app/internal/dto"
	"github.com/go-playground/validator/v10"
)

// DefaultTimeout bounds every request made by a Client.
const DefaultTimeout = 10 * time.Second

// Session is the part of session.Store the client needs.
type Session interface {
	Token() string
	Login(token string) bool
	Logout()
}

var _ Session = (*session.Store)(nil)

type Client struct {
	baseURL  *url.URL
	http     *http.Client
	session  Session
	validate *validator.Validate
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// New returns a Client for the API rooted at baseURL.
func New(baseURL string, s Session, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q", baseURL)
	}
	if s == nil {
		return nil, errors.New("session cannot be nil")
	}
	c := &Client{
		baseURL:  u,
		http:     &http.Client{Timeout: DefaultTimeout},
		session:  s,
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// newValidator adds maxbytes, a length limit counted in bytes rather than characters.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= limit
	})
	return v
}

type registerInput struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

type loginInput struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required"`
}

type googleInput struct {
	Credential string `json:"credential" validate:"required"`
}

type codeInput struct {
	Code string `json:"code" validate:"required"`
}

// Register creates a password account and signs in with it.
func (c *Client) Register(ctx context.Context, email, displayName, password string) (*dto.AuthResponse, error) {
	in := registerInput{Email: strings.TrimSpace(email), Username: strings.TrimSpace(displayName), Password: password}
	return c.authenticate(ctx, "/auth/register", in)
}

// Login signs in with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	in := loginInput{Email: strings.TrimSpace(email), Password: password}
	return c.authenticate(ctx, "/auth/login", in)
}

// GoogleLogin signs in with a Google ID token credential.
func (c *Client) GoogleLogin(ctx context.Context, credential string) (*dto.AuthResponse, error) {
	return c.authenticate(ctx, "/auth/google", googleInput{Credential: strings.TrimSpace(credential)})
}

// ExchangeCode signs in with a Google authorization code.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*dto.AuthResponse, error) {
	return c.authenticate(ctx, "/auth/google/exchange-code", codeInput{Code: strings.TrimSpace(code)})
}

// Me returns the signed-in account. A 401 clears the session.
func (c *Client) Me(ctx context.Context) (*dto.UserResponse, error) {
	token := c.session.Token()
	if token == "" {
		return nil, &Error{Kind: apperrors.KindUnauthenticated, Message: "Not signed in"}
	}

	var user dto.UserResponse
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, token, &user)
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		c.session.Logout()
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) authenticate(ctx context.Context, path string, in any) (*dto.AuthResponse, error) {
	if err := c.check(in); err != nil {
		return nil, err
	}
	var out dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, path, in, "", &out); err != nil {
		return nil, err
	}
	if !c.session.Login(out.Token) {
		return nil, &Error{Status: http.StatusOK, Kind: apperrors.KindInternal, Message: "Server response carried no token"}
	}
	return &out, nil
}

// check validates input locally so obviously bad requests never reach the network.
func (c *Client) check(in any) error {
	err := c.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Error{Kind: apperrors.KindInvalidInput, Message: err.Error()}
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return &Error{Kind: apperrors.KindMissingFields, Message: "Please fill in all fields"}
		}
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "email":
		return &Error{Kind: apperrors.KindInvalidInput, Message: "Invalid email address"}
	default:
		return &Error{Kind: apperrors.KindInvalidInput, Message: fmt.Sprintf("%s is too long", strings.ToLower(fe.Field()))}
	}
}

func (c *Client) do(ctx context.Context, method, path string, in any, token string, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
