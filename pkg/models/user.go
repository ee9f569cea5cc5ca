package models

import "time"

// User is a person known through the identity provider.
type User struct {
	OpenID       string    `db:"open_id" json:"open_id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	LoginMethod  string    `db:"login_method" json:"login_method"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	LastSignedIn time.Time `db:"last_signed_in" json:"last_signed_in"`
}
