package sessionauth

import (
	"fmt"
	"time"

	"github.com/MrEthical07/sessionauth/internal/flows"
)

// ValidateAccess fully verifies an access token (signature, algorithm, expiry)
// and returns its principal. Every failure is ErrUnauthorized.
func (e *Engine) ValidateAccess(token string) (Principal, error) {
	if e == nil || e.jwtManager == nil {
		return Principal{}, ErrEngineNotReady
	}
	start := time.Now()
	res := flows.RunValidate(token, e.flows.Validate)
	e.metrics.Observe(MetricValidateLatency, time.Since(start))
	return e.validateResult(res)
}

// AuthenticateHeader checks an Authorization header value. It must be exactly
// "Bearer <token>"; anything else, and any token that fails ValidateAccess, is
// ErrUnauthorized.
func (e *Engine) AuthenticateHeader(header string) (Principal, error) {
	if e == nil || e.jwtManager == nil {
		return Principal{}, ErrEngineNotReady
	}
	start := time.Now()
	res := flows.RunValidateHeader(header, e.flows.Validate)
	e.metrics.Observe(MetricValidateLatency, time.Since(start))
	return e.validateResult(res)
}

func (e *Engine) validateResult(res flows.ValidateResult) (Principal, error) {
	if res.Failure != flows.ValidateFailureNone {
		e.metricInc(MetricGuardRejected)
		if res.Err != nil {
			return Principal{}, fmt.Errorf("%w: %w", ErrUnauthorized, res.Err)
		}
		return Principal{}, ErrUnauthorized
	}
	return Principal{
		Subject:   res.Token.Subject,
		TokenID:   res.Token.TokenID,
		IssuedAt:  res.Token.IssuedAt,
		ExpiresAt: res.Token.ExpiresAt,
	}, nil
}
