package domain

import (
	"strings"
	"time"
)

const (
	// MaxPasswordBytes is the longest password bcrypt accepts, counted in bytes.
	MaxPasswordBytes = 72
	// MaxDisplayNameLength matches the display_name column, counted in characters.
	MaxDisplayNameLength = 100
	// MaxEmailLength matches the email column.
	MaxEmailLength = 254
)

// Account is a user identity record keyed by a unique, normalized email.
type Account struct {
	AccountID   string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"username"`
	// PasswordHash is always set. For externally authenticated accounts it is the
	// hash of a random placeholder that is never disclosed.
	PasswordHash            string    `json:"-"`
	ProfileImageURL         string    `json:"profilePicture"`
	ExternallyAuthenticated bool      `json:"-"`
	CreatedAt               time.Time `json:"createdAt"`
}

// NormalizeEmail trims and lowercases an email so that lookups and the
// uniqueness constraint compare the same representation.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// TruncateDisplayName trims name and cuts it to MaxDisplayNameLength characters.
func TruncateDisplayName(name string) string {
	name = strings.TrimSpace(name)
	runes := []rune(name)
	if len(runes) <= MaxDisplayNameLength {
		return name
	}
	return strings.TrimSpace(string(runes[:MaxDisplayNameLength]))
}

// ExternalIdentity is the verified subset of an identity provider assertion.
type ExternalIdentity struct {
	Provider      AuthProvider
	Subject       string
	Email         string
	EmailVerified bool
	DisplayName   string
	PictureURL    string
}

// AuthProvider names the identity provider that vouched for an ExternalIdentity.
type AuthProvider string

const (
	ProviderGoogle AuthProvider = "google"
)
