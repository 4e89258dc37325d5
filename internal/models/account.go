package models

import (
	"database/sql"
	"time"
)

// Account is the row shape of the accounts table.
type Account struct {
	AccountID               string         `db:"account_id"`
	Email                   string         `db:"email"`
	DisplayName             string         `db:"display_name"`
	PasswordHash            string         `db:"password_hash"`
	ProfileImageURL         sql.NullString `db:"profile_image_url"`
	ExternallyAuthenticated bool           `db:"externally_authenticated"`
	CreatedAt               time.Time      `db:"created_at"`
}
