package flows

import (
	"context"
	"errors"
)

// RegisterFailureKind classifies registration failures.
type RegisterFailureKind int

const (
	RegisterFailureNone RegisterFailureKind = iota
	RegisterFailureDuplicate
	RegisterFailureLookup
	RegisterFailureHash
	RegisterFailureCreate
)

// RegisterInput is the flow-local registration request.
type RegisterInput struct {
	Email        string
	Password     string
	Name         string
	PersonalInfo string
}

// RegisterRecord is what gets persisted: the input with the password replaced by
// its hash.
type RegisterRecord struct {
	Email        string
	PasswordHash string
	Name         string
	PersonalInfo string
}

// RegisterResult carries the created id or the failure classification.
type RegisterResult struct {
	Failure RegisterFailureKind
	Err     error
	ID      int64
	Email   string
}

// RegisterDeps captures registration dependencies.
type RegisterDeps struct {
	FindUser       func(ctx context.Context, email string) (LoginUserRecord, error)
	UserNotFound   error
	HashPassword   func(plaintext string) (string, error)
	CreateUser     func(ctx context.Context, rec RegisterRecord) (int64, error)
	DuplicateEmail error
}

// RunRegister rejects taken emails, hashes the password and stores the user.
// A duplicate reported by CreateUser covers two registrations racing past the
// lookup.
func RunRegister(ctx context.Context, in RegisterInput, deps RegisterDeps) RegisterResult {
	_, err := deps.FindUser(ctx, in.Email)
	switch {
	case err == nil:
		return RegisterResult{Failure: RegisterFailureDuplicate, Email: in.Email}
	case deps.UserNotFound != nil && errors.Is(err, deps.UserNotFound):
	default:
		return RegisterResult{Failure: RegisterFailureLookup, Err: err, Email: in.Email}
	}

	hash, err := deps.HashPassword(in.Password)
	if err != nil {
		return RegisterResult{Failure: RegisterFailureHash, Err: err, Email: in.Email}
	}

	id, err := deps.CreateUser(ctx, RegisterRecord{
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		PersonalInfo: in.PersonalInfo,
	})
	if err != nil {
		if deps.DuplicateEmail != nil && errors.Is(err, deps.DuplicateEmail) {
			return RegisterResult{Failure: RegisterFailureDuplicate, Err: err, Email: in.Email}
		}
		return RegisterResult{Failure: RegisterFailureCreate, Err: err, Email: in.Email}
	}

	return RegisterResult{ID: id, Email: in.Email}
}
