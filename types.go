package sessionauth

import (
	"context"
	"time"

	"github.com/MrEthical07/sessionauth/directory"
)

// UserDirectory looks up and creates accounts. FindByEmail must return an error
// matching directory.ErrNotFound for an unknown email, and Create must return
// one matching directory.ErrDuplicateEmail when the email is taken.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (directory.User, error)
	Create(ctx context.Context, in directory.NewUser) (directory.User, error)
}

// Pinger is implemented by directories that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// UserPublic is a user without its password hash.
type UserPublic struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PersonalInfo string `json:"personalInfo"`
}

// TokenPair is returned by a successful Login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterRequest is the input to Register. Password is plaintext and is hashed
// before it reaches the directory.
type RegisterRequest struct {
	Email        string
	Password     string
	Name         string
	PersonalInfo string
}

// RegisterResult identifies a newly created user.
type RegisterResult struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Principal is what a verified access token says about its bearer.
type Principal struct {
	Subject   string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func publicUser(u directory.User) UserPublic {
	return UserPublic{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PersonalInfo: u.PersonalInfo,
	}
}
