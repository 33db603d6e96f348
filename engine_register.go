package sessionauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/sessionauth/directory"
	"github.com/MrEthical07/sessionauth/internal/flows"
	"github.com/MrEthical07/sessionauth/password"
)

// Register creates an account. The password is hashed with the configured
// hasher; the plaintext never reaches the directory. An existing email returns
// ErrConflict.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) (RegisterResult, error) {
	if e == nil || e.hasher == nil {
		return RegisterResult{}, ErrEngineNotReady
	}

	res := flows.RunRegister(ctx, flows.RegisterInput{
		Email:        req.Email,
		Password:     req.Password,
		Name:         req.Name,
		PersonalInfo: req.PersonalInfo,
	}, e.flows.Register)

	switch res.Failure {
	case flows.RegisterFailureNone:
		e.metricInc(MetricRegisterSuccess)
		e.emitAudit(ctx, auditEventRegisterSuccess, true, res.Email, nil, nil)
		return RegisterResult{ID: res.ID, Email: res.Email}, nil
	case flows.RegisterFailureDuplicate:
		e.metricInc(MetricRegisterDuplicate)
		e.emitAudit(ctx, auditEventRegisterDuplicate, false, res.Email, ErrConflict, nil)
		return RegisterResult{}, ErrConflict
	}

	var err error
	switch res.Failure {
	case flows.RegisterFailureHash:
		if errors.Is(res.Err, password.ErrInvalidCost) {
			err = fmt.Errorf("%w: %w", ErrInternalConfig, res.Err)
		} else {
			err = fmt.Errorf("%w: %w", ErrInternal, res.Err)
		}
		e.logger.Error("password hashing failed", "err", res.Err)
	default:
		err = fmt.Errorf("%w: %w", ErrDirectoryUnavailable, res.Err)
		e.logger.Error("user directory write failed", "err", res.Err)
	}
	e.emitAudit(ctx, auditEventRegisterFailure, false, res.Email, err, nil)
	return RegisterResult{}, err
}

// Profile returns the public projection of subject's account.
func (e *Engine) Profile(ctx context.Context, subject string) (UserPublic, error) {
	if e == nil || e.directory == nil {
		return UserPublic{}, ErrEngineNotReady
	}
	u, err := e.directory.FindByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return UserPublic{}, ErrUserNotFound
		}
		e.logger.Error("user lookup failed", "err", err)
		return UserPublic{}, fmt.Errorf("%w: %w", ErrDirectoryUnavailable, err)
	}
	return publicUser(u), nil
}
