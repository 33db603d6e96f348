package sessionauth

import (
	"context"
	"fmt"

	"github.com/MrEthical07/sessionauth/internal/flows"
)

// Login verifies email and password, issues a token pair and makes its refresh
// token the only valid one for email. Unknown emails and wrong passwords both
// return ErrInvalidCredentials.
func (e *Engine) Login(ctx context.Context, email, password string) (TokenPair, error) {
	if e == nil || e.jwtManager == nil {
		return TokenPair{}, ErrEngineNotReady
	}

	res := flows.RunLogin(ctx, email, password, e.flows.Login)
	if res.Failure != flows.LoginFailureNone {
		err := e.mapLoginFailure(res.Failure, res.Err)
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, res.Subject, err, nil)
		return TokenPair{}, err
	}

	e.metricInc(MetricLoginSuccess)
	e.metricInc(MetricSessionCreated)
	e.emitAudit(ctx, auditEventLoginSuccess, true, res.Subject, nil, nil)

	return TokenPair{AccessToken: res.AccessToken, RefreshToken: res.RefreshToken}, nil
}

// ValidateCredentials checks email and password without issuing tokens. It
// returns (nil, nil) when they do not match; errors are reserved for directory
// or hash faults.
func (e *Engine) ValidateCredentials(ctx context.Context, email, password string) (*UserPublic, error) {
	if e == nil || e.hasher == nil {
		return nil, ErrEngineNotReady
	}

	user, kind, err := flows.CheckCredentials(ctx, email, password, e.flows.Login)
	switch kind {
	case flows.LoginFailureNone:
		return &UserPublic{
			ID:           user.ID,
			Email:        user.Email,
			Name:         user.Name,
			PersonalInfo: user.PersonalInfo,
		}, nil
	case flows.LoginFailureUnknownUser, flows.LoginFailureWrongPassword:
		return nil, nil
	default:
		return nil, e.mapLoginFailure(kind, err)
	}
}

func (e *Engine) mapLoginFailure(kind flows.LoginFailureKind, cause error) error {
	switch kind {
	case flows.LoginFailureUnknownUser, flows.LoginFailureWrongPassword:
		return ErrInvalidCredentials
	case flows.LoginFailureLookup:
		e.logger.Error("user lookup failed", "err", cause)
		return fmt.Errorf("%w: %w", ErrDirectoryUnavailable, cause)
	case flows.LoginFailurePersist:
		e.logger.Error("refresh token write failed", "err", cause)
		return fmt.Errorf("%w: %w", ErrSessionStoreUnavailable, cause)
	case flows.LoginFailureHash:
		e.logger.Error("stored password hash unusable", "err", cause)
		return fmt.Errorf("%w: %w", ErrInternal, cause)
	default:
		e.logger.Error("token issuance failed", "err", cause)
		return fmt.Errorf("%w: %w", ErrInternal, cause)
	}
}
