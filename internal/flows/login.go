package flows

import (
	"context"
	"errors"
)

// LoginFailureKind classifies login failures for root-level mapping.
type LoginFailureKind int

const (
	LoginFailureNone LoginFailureKind = iota
	LoginFailureUnknownUser
	LoginFailureWrongPassword
	LoginFailureLookup
	LoginFailureHash
	LoginFailureIssue
	LoginFailurePersist
)

// LoginUserRecord is the flow-local view of a stored user.
type LoginUserRecord struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
	PersonalInfo string
}

// LoginResult carries the issued pair or the failure classification.
type LoginResult struct {
	Failure      LoginFailureKind
	Err          error
	Subject      string
	AccessToken  string
	RefreshToken string
}

// LoginDeps captures login and credential-check dependencies.
type LoginDeps struct {
	FindUser       func(ctx context.Context, email string) (LoginUserRecord, error)
	UserNotFound   error
	VerifyPassword func(plaintext, hash string) (bool, error)
	IssuePair      func(subject string) (access, refresh string, err error)
	StoreRefresh   func(ctx context.Context, subject, token string) error
}

// CheckCredentials looks up email and compares password against its hash. It
// returns LoginFailureNone with the record on a match.
func CheckCredentials(ctx context.Context, email, password string, deps LoginDeps) (LoginUserRecord, LoginFailureKind, error) {
	user, err := deps.FindUser(ctx, email)
	if err != nil {
		if deps.UserNotFound != nil && errors.Is(err, deps.UserNotFound) {
			return LoginUserRecord{}, LoginFailureUnknownUser, err
		}
		return LoginUserRecord{}, LoginFailureLookup, err
	}

	ok, err := deps.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return LoginUserRecord{}, LoginFailureHash, err
	}
	if !ok {
		return LoginUserRecord{}, LoginFailureWrongPassword, nil
	}
	return user, LoginFailureNone, nil
}

// RunLogin verifies credentials, issues a token pair and stores the refresh
// token as the subject's only valid one.
func RunLogin(ctx context.Context, email, password string, deps LoginDeps) LoginResult {
	user, kind, err := CheckCredentials(ctx, email, password, deps)
	if kind != LoginFailureNone {
		return LoginResult{Failure: kind, Err: err}
	}

	access, refresh, err := deps.IssuePair(user.Email)
	if err != nil {
		return LoginResult{Failure: LoginFailureIssue, Err: err, Subject: user.Email}
	}

	if err := deps.StoreRefresh(ctx, user.Email, refresh); err != nil {
		return LoginResult{Failure: LoginFailurePersist, Err: err, Subject: user.Email}
	}

	return LoginResult{
		Subject:      user.Email,
		AccessToken:  access,
		RefreshToken: refresh,
	}
}
