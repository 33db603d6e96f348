package sessionauth

import (
	"context"
	"fmt"

	"github.com/MrEthical07/sessionauth/internal/flows"
)

// Refresh returns a new access token if refreshToken is the one currently stored
// for its subject. The stored token is left as is; it is not rotated.
//
// Anything short of an exact match returns ErrUnauthorized. Store outages are
// reported as ErrSessionStoreUnavailable rather than masked as unauthorized.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if e == nil || e.jwtManager == nil {
		return "", ErrEngineNotReady
	}

	res := flows.RunRefresh(ctx, refreshToken, e.flows.Refresh)
	if res.Failure != flows.RefreshFailureNone {
		err := e.mapRefreshFailure(res.Failure, res.Err)
		e.metricInc(MetricRefreshFailure)
		if res.Failure == flows.RefreshFailureMismatch {
			e.metricInc(MetricRefreshMismatch)
		}
		e.emitAudit(ctx, auditEventRefreshFailure, false, res.Subject, err, map[string]string{
			"reason": refreshFailureReason(res.Failure),
		})
		return "", err
	}

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, auditEventRefreshSuccess, true, res.Subject, nil, nil)
	return res.AccessToken, nil
}

func (e *Engine) mapRefreshFailure(kind flows.RefreshFailureKind, cause error) error {
	switch kind {
	case flows.RefreshFailureDecode:
		return fmt.Errorf("%w: %w", ErrUnauthorized, cause)
	case flows.RefreshFailureSessionNotFound, flows.RefreshFailureMismatch:
		return ErrUnauthorized
	case flows.RefreshFailureStore:
		e.logger.Error("refresh token read failed", "err", cause)
		return fmt.Errorf("%w: %w", ErrSessionStoreUnavailable, cause)
	default:
		e.logger.Error("access token issuance failed", "err", cause)
		return fmt.Errorf("%w: %w", ErrInternal, cause)
	}
}

func refreshFailureReason(kind flows.RefreshFailureKind) string {
	switch kind {
	case flows.RefreshFailureDecode:
		return "malformed"
	case flows.RefreshFailureSessionNotFound:
		return "no_session"
	case flows.RefreshFailureMismatch:
		return "superseded"
	case flows.RefreshFailureStore:
		return "store"
	default:
		return "issue"
	}
}
