package types

import "time"

// User represents a dashboard account.
type User struct {
	// ID is the unique identifier of the user.
	ID string `json:"id" db:"id"`

	// Firstname is the user's given name.
	Firstname string `json:"firstname" db:"firstname"`

	// Lastname is the user's family name.
	Lastname string `json:"lastname" db:"lastname"`

	// Username is the unique login name chosen by the user.
	Username string `json:"username" db:"username"`

	// Email is the user's unique email address.
	Email string `json:"email" db:"email"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
