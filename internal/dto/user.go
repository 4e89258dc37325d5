package dto

import (
	"time"

	"github.com/SscSPs/movie_review_app/internal/core/domain"
)

// UserResponse is the sanitized account representation. It has no password field.
type UserResponse struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	ProfilePicture string    `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ToUserResponse converts a domain.Account to its outward representation.
func ToUserResponse(account *domain.Account) UserResponse {
	return UserResponse{
		ID:             account.AccountID,
		Email:          account.Email,
		Username:       account.DisplayName,
		ProfilePicture: account.ProfileImageURL,
		CreatedAt:      account.CreatedAt,
	}
}

// CreateAccountParams is the Credential Store input. A nil RawPassword is only
// allowed for externally authenticated accounts.
type CreateAccountParams struct {
	Email                   string
	DisplayName             string
	RawPassword             *string
	ExternallyAuthenticated bool
	ProfileImageURL         string
}
