package flows

import (
	"context"
	"crypto/subtle"
	"errors"
)

// RefreshFailureKind classifies refresh flow failures for root-level mapping.
type RefreshFailureKind int

const (
	RefreshFailureNone RefreshFailureKind = iota
	RefreshFailureDecode
	RefreshFailureSessionNotFound
	RefreshFailureMismatch
	RefreshFailureStore
	RefreshFailureIssueAccess
)

// RefreshResult carries either the new access token or failure metadata.
type RefreshResult struct {
	Failure     RefreshFailureKind
	Err         error
	Subject     string
	AccessToken string
}

// RefreshDeps captures refresh flow dependencies.
type RefreshDeps struct {
	DecodeSubject   func(token string) (string, error)
	LoadRefresh     func(ctx context.Context, subject string) (string, error)
	RefreshNotFound error
	IssueAccess     func(subject string) (string, error)
}

// RunRefresh mints a new access token when presented equals the refresh token
// stored for its subject. The stored record is never modified.
func RunRefresh(ctx context.Context, presented string, deps RefreshDeps) RefreshResult {
	subject, err := deps.DecodeSubject(presented)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureDecode, Err: err}
	}

	stored, err := deps.LoadRefresh(ctx, subject)
	if err != nil {
		if deps.RefreshNotFound != nil && errors.Is(err, deps.RefreshNotFound) {
			return RefreshResult{Failure: RefreshFailureSessionNotFound, Err: err, Subject: subject}
		}
		return RefreshResult{Failure: RefreshFailureStore, Err: err, Subject: subject}
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) != 1 {
		return RefreshResult{Failure: RefreshFailureMismatch, Subject: subject}
	}

	access, err := deps.IssueAccess(subject)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureIssueAccess, Err: err, Subject: subject}
	}

	return RefreshResult{Subject: subject, AccessToken: access}
}
