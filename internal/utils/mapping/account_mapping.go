package mapping

import (
	"database/sql"

	"github.com/SscSPs/movie_review_app/internal/core/domain"
	"github.com/SscSPs/movie_review_app/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:               d.AccountID,
		Email:                   d.Email,
		DisplayName:             d.DisplayName,
		PasswordHash:            d.PasswordHash,
		ProfileImageURL:         sql.NullString{String: d.ProfileImageURL, Valid: d.ProfileImageURL != ""},
		ExternallyAuthenticated: d.ExternallyAuthenticated,
		CreatedAt:               d.CreatedAt,
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:               m.AccountID,
		Email:                   m.Email,
		DisplayName:             m.DisplayName,
		PasswordHash:            m.PasswordHash,
		ProfileImageURL:         m.ProfileImageURL.String,
		ExternallyAuthenticated: m.ExternallyAuthenticated,
		CreatedAt:               m.CreatedAt,
	}
}
