package sessionauth

import (
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/sessionauth/jwt"
	"github.com/MrEthical07/sessionauth/password"
	"github.com/MrEthical07/sessionauth/session"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an Engine from explicit dependencies. A Builder can build
// exactly one Engine.
type Builder struct {
	config    Config
	redis     redis.UniversalClient
	directory UserDirectory
	auditSink AuditSink
	logger    Logger
	now       func() time.Time

	built bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the client used for refresh token custody.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithDirectory sets the user directory.
func (b *Builder) WithDirectory(dir UserDirectory) *Builder {
	b.directory = dir
	return b
}

// WithAuditSink sets the sink used when Config.Audit.Enabled is true.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger sets the logger. The default discards everything.
func (b *Builder) WithLogger(l Logger) *Builder {
	b.logger = l
	return b
}

// WithClock overrides the clock used to stamp and check tokens.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and wires the Engine. Missing or invalid
// security settings fail here with ErrInternalConfig, never later per request.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.redis == nil {
		return nil, configError("redis client required")
	}
	if b.directory == nil {
		return nil, configError("user directory required")
	}

	now := b.now
	if now == nil {
		now = time.Now
	}
	logger := b.logger
	if logger == nil {
		logger = noopLogger{}
	}

	// -------- TOKEN ISSUER --------
	jwtManager, err := jwt.NewManager(jwt.Config{
		Secret:     cfg.JWT.Secret,
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
		Issuer:     cfg.JWT.Issuer,
		Leeway:     cfg.JWT.Leeway,
		Now:        now,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInternalConfig, err)
	}

	// -------- CREDENTIAL VERIFIER --------
	hasher, err := password.New(password.Config{
		Algorithm: cfg.Password.Algorithm,
		Cost:      cfg.Password.Cost,
		Argon2:    cfg.Password.Argon2,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInternalConfig, err)
	}

	// -------- SESSION STORE --------
	store := session.NewStore(b.redis, cfg.Session.RedisPrefix)

	e := &Engine{
		config:       cfg,
		jwtManager:   jwtManager,
		sessionStore: store,
		directory:    b.directory,
		hasher:       hasher,
		audit:        newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:      NewMetrics(cfg.Metrics),
		logger:       logger,
		now:          now,
	}
	e.flows = e.buildFlowDeps()

	b.built = true
	logger.Debug("engine built",
		"password_algorithm", string(cfg.Password.Algorithm),
		"access_ttl", cfg.JWT.AccessTTL,
		"refresh_ttl", cfg.JWT.RefreshTTL,
		"audit", cfg.Audit.Enabled,
	)
	return e, nil
}
