package services_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SscSPs/movie_review_app/internal/apperrors"
	"github.com/SscSPs/movie_review_app/internal/core/domain"
	"github.com/SscSPs/movie_review_app/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

const testAudience = "client-123.apps.googleusercontent.com"

func stubValidator(payload *idtoken.Payload, err error) services.IDTokenValidator {
	return func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error) {
		if audience != testAudience {
			return nil, errors.New("idtoken: audience provided does not match aud claim in the JWT")
		}
		return payload, err
	}
}

func googlePayload(claims map[string]interface{}) *idtoken.Payload {
	return &idtoken.Payload{
		Issuer:   "https://accounts.google.com",
		Audience: testAudience,
		Subject:  "1122334455",
		Claims:   claims,
	}
}

func TestGoogleIdentityVerifier_Success(t *testing.T) {
	verifier := services.NewGoogleIdentityVerifierWithValidator(testAudience, stubValidator(googlePayload(map[string]interface{}{
		"email":          "G@Example.com",
		"email_verified": true,
		"name":           "Gee Example",
		"picture":        "https://lh3.googleusercontent.com/a/pic",
	}), nil))

	identity, err := verifier.VerifyIdentity(context.Background(), "header.payload.signature")

	require.NoError(t, err)
	assert.Equal(t, &domain.ExternalIdentity{
		Provider:      domain.ProviderGoogle,
		Subject:       "1122334455",
		Email:         "g@example.com",
		EmailVerified: true,
		DisplayName:   "Gee Example",
		PictureURL:    "https://lh3.googleusercontent.com/a/pic",
	}, identity)
}

func TestGoogleIdentityVerifier_EmailVerifiedAsString(t *testing.T) {
	verifier := services.NewGoogleIdentityVerifierWithValidator(testAudience, stubValidator(googlePayload(map[string]interface{}{
		"email":          "g@example.com",
		"email_verified": "true",
	}), nil))

	identity, err := verifier.VerifyIdentity(context.Background(), "header.payload.signature")

	require.NoError(t, err)
	assert.True(t, identity.EmailVerified)
	assert.Empty(t, identity.DisplayName)
}

func TestGoogleIdentityVerifier_Failures(t *testing.T) {
	wrongIssuer := googlePayload(map[string]interface{}{"email": "g@example.com"})
	wrongIssuer.Issuer = "https://evil.example.com"

	cases := map[string]struct {
		audience  string
		validate  services.IDTokenValidator
		assertion string
	}{
		"empty assertion": {
			audience: testAudience, assertion: "  ",
			validate: stubValidator(googlePayload(nil), nil),
		},
		"no audience configured": {
			audience: "", assertion: "header.payload.signature",
			validate: stubValidator(googlePayload(nil), nil),
		},
		"bad signature": {
			audience: testAudience, assertion: "header.payload.signature",
			validate: stubValidator(nil, errors.New("idtoken: invalid token signature")),
		},
		"wrong issuer": {
			audience: testAudience, assertion: "header.payload.signature",
			validate: stubValidator(wrongIssuer, nil),
		},
		"no email": {
			audience: testAudience, assertion: "header.payload.signature",
			validate: stubValidator(googlePayload(map[string]interface{}{"name": "Gee"}), nil),
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			verifier := services.NewGoogleIdentityVerifierWithValidator(tc.audience, tc.validate)

			identity, err := verifier.VerifyIdentity(context.Background(), tc.assertion)

			assert.Nil(t, identity)
			assert.ErrorIs(t, err, apperrors.ErrIdentityVerification)
		})
	}
}

func TestGoogleOAuthHandler_ExchangeCodeForIDToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Bad Request"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"ya29.token","token_type":"Bearer","expires_in":3599,"id_token":"header.payload.signature"}`))
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.GoogleClientSecret = "shh"
	cfg.GoogleRedirectURL = "http://localhost:5173/auth/callback"
	handler := services.NewGoogleOAuthHandlerServiceWithEndpoint(cfg, oauth2.Endpoint{
		AuthURL:   srv.URL + "/auth",
		TokenURL:  srv.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	})

	idToken, err := handler.ExchangeCodeForIDToken(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "header.payload.signature", idToken)

	_, err = handler.ExchangeCodeForIDToken(context.Background(), "stale-code")
	assert.ErrorIs(t, err, services.ErrCodeExchange)

	loginURL := handler.GetGoogleLoginURL(context.Background(), "state-abc")
	assert.Contains(t, loginURL, srv.URL+"/auth?")
	assert.Contains(t, loginURL, "state=state-abc")
}
