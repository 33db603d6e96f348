package sessionauth

import (
	"context"
	"fmt"
	"time"

	"github.com/MrEthical07/sessionauth/directory"
	"github.com/MrEthical07/sessionauth/internal/flows"
	"github.com/MrEthical07/sessionauth/jwt"
	"github.com/MrEthical07/sessionauth/password"
	"github.com/MrEthical07/sessionauth/session"
)

// Engine runs login, refresh, registration and access checks. Build one with
// New().…Build(); the zero value is not usable.
type Engine struct {
	config       Config
	jwtManager   *jwt.Manager
	sessionStore *session.Store
	directory    UserDirectory
	hasher       password.Hasher
	flows        flows.Deps
	audit        *auditDispatcher
	metrics      *Metrics
	logger       Logger
	now          func() time.Time
}

// Close flushes and stops the audit dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped returns how many audit events were dropped on a full buffer.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns the current counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// AccessTTL is the lifetime of issued access tokens.
func (e *Engine) AccessTTL() time.Duration { return e.config.JWT.AccessTTL }

// RefreshTTL is the lifetime of issued refresh tokens and of their store record.
func (e *Engine) RefreshTTL() time.Duration { return e.config.JWT.RefreshTTL }

// Ping checks the session store and, if it supports it, the user directory.
func (e *Engine) Ping(ctx context.Context) error {
	if e == nil || e.sessionStore == nil {
		return ErrEngineNotReady
	}
	if err := e.sessionStore.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrSessionStoreUnavailable, err)
	}
	if p, ok := e.directory.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("%w: %w", ErrDirectoryUnavailable, err)
		}
	}
	return nil
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) buildFlowDeps() flows.Deps {
	findUser := func(ctx context.Context, email string) (flows.LoginUserRecord, error) {
		u, err := e.directory.FindByEmail(ctx, email)
		if err != nil {
			return flows.LoginUserRecord{}, err
		}
		return flows.LoginUserRecord{
			ID:           u.ID,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			Name:         u.Name,
			PersonalInfo: u.PersonalInfo,
		}, nil
	}

	return flows.Deps{
		Login: flows.LoginDeps{
			FindUser:       findUser,
			UserNotFound:   directory.ErrNotFound,
			VerifyPassword: e.hasher.Verify,
			IssuePair: func(subject string) (string, string, error) {
				pair, err := e.jwtManager.IssuePair(subject)
				return pair.AccessToken, pair.RefreshToken, err
			},
			StoreRefresh: func(ctx context.Context, subject, token string) error {
				return e.sessionStore.SetRefreshToken(ctx, subject, token, e.config.JWT.RefreshTTL)
			},
		},
		Refresh: flows.RefreshDeps{
			DecodeSubject: func(token string) (string, error) {
				claims, err := e.jwtManager.Decode(token)
				if err != nil {
					return "", err
				}
				return claims.Subject, nil
			},
			LoadRefresh:     e.sessionStore.GetRefreshToken,
			RefreshNotFound: session.ErrRefreshNotFound,
			IssueAccess:     e.jwtManager.IssueAccess,
		},
		Validate: flows.ValidateDeps{
			Verify: func(token string) (flows.ValidatedToken, error) {
				claims, err := e.jwtManager.Verify(token)
				if err != nil {
					return flows.ValidatedToken{}, err
				}
				out := flows.ValidatedToken{Subject: claims.Subject, TokenID: claims.ID}
				if claims.IssuedAt != nil {
					out.IssuedAt = claims.IssuedAt.Time
				}
				if claims.ExpiresAt != nil {
					out.ExpiresAt = claims.ExpiresAt.Time
				}
				return out, nil
			},
		},
		Register: flows.RegisterDeps{
			FindUser:     findUser,
			UserNotFound: directory.ErrNotFound,
			HashPassword: e.hasher.Hash,
			CreateUser: func(ctx context.Context, rec flows.RegisterRecord) (int64, error) {
				u, err := e.directory.Create(ctx, directory.NewUser{
					Email:        rec.Email,
					PasswordHash: rec.PasswordHash,
					Name:         rec.Name,
					PersonalInfo: rec.PersonalInfo,
				})
				return u.ID, err
			},
			DuplicateEmail: directory.ErrDuplicateEmail,
		},
	}
}
