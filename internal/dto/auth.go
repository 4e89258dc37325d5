package dto

// RegisterRequest is the body of POST /auth/register.
// Either username or displayName carries the display name; browser clients send username.
type RegisterRequest struct {
	Email       string `json:"email" binding:"max=254"`
	Username    string `json:"username" binding:"max=100"`
	DisplayName string `json:"displayName" binding:"max=100"`
	Password    string `json:"password" binding:"max=72"`
}

// Name returns the display name from whichever field the client populated.
func (r RegisterRequest) Name() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return r.Username
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"max=254"`
	Password string `json:"password"`
}

// GoogleLoginRequest carries the ID token credential issued by Google Identity Services.
type GoogleLoginRequest struct {
	Credential string `json:"credential"`
}

// ExchangeCodeRequest defines the expected JSON body for the /auth/google/exchange-code endpoint.
type ExchangeCodeRequest struct {
	Code string `json:"code"`
}

// AuthResponse is returned by every endpoint that issues a token.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expiresAt"`
	User      UserResponse `json:"user"`
}
