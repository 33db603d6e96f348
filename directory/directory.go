package directory

import "errors"

var (
	// ErrNotFound is returned when no user has the requested email.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when an insert collides with an existing email.
	ErrDuplicateEmail = errors.New("email already registered")
)

// User is a stored account, password hash included.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
	PersonalInfo string
}

// NewUser is the input to Create. PasswordHash must already be hashed.
type NewUser struct {
	Email        string
	PasswordHash string
	Name         string
	PersonalInfo string
}
