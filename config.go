package sessionauth

import (
	"fmt"
	"strings"
	"time"

	"github.com/MrEthical07/sessionauth/jwt"
	"github.com/MrEthical07/sessionauth/password"
	"github.com/MrEthical07/sessionauth/session"
)

/*
====================================
ROOT CONFIG
====================================
*/

// Config is the complete Engine configuration. Build it with DefaultConfig and
// fill in JWT.Secret and Password.Cost; neither has a default.
type Config struct {
	JWT      JWTConfig
	Session  SessionConfig
	Password PasswordConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

// JWTConfig controls token signing and lifetimes.
type JWTConfig struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Issuer     string
	Leeway     time.Duration
}

// SessionConfig controls the refresh token store.
type SessionConfig struct {
	RedisPrefix string
}

// PasswordConfig selects the password hasher. Cost is the bcrypt work factor.
type PasswordConfig struct {
	Algorithm password.Algorithm
	Cost      int
	Argon2    password.Argon2Config
}

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULTS
====================================
*/

// DefaultConfig returns lifetimes of 60s and 3600s, the "refresh" key prefix and
// bcrypt. Secret and Cost are left empty on purpose.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:  jwt.DefaultAccessTTL,
			RefreshTTL: jwt.DefaultRefreshTTL,
		},
		Session: SessionConfig{
			RedisPrefix: session.DefaultPrefix,
		},
		Password: PasswordConfig{
			Algorithm: password.AlgorithmBcrypt,
			Argon2:    password.DefaultArgon2Config(),
		},
		Audit: AuditConfig{
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if len(cfg.JWT.Secret) > 0 {
		out.JWT.Secret = make([]byte, len(cfg.JWT.Secret))
		copy(out.JWT.Secret, cfg.JWT.Secret)
	}
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first invalid field. Every error wraps ErrInternalConfig.
func (c *Config) Validate() error {
	// JWT
	if len(c.JWT.Secret) == 0 {
		return configError("JWT Secret is required")
	}
	if len(strings.TrimSpace(string(c.JWT.Secret))) < 16 {
		return configError("JWT Secret must be at least 16 bytes")
	}
	if c.JWT.AccessTTL <= 0 {
		return configError("JWT AccessTTL must be > 0")
	}
	if c.JWT.RefreshTTL <= 0 {
		return configError("JWT RefreshTTL must be > 0")
	}
	if c.JWT.RefreshTTL%time.Second != 0 {
		return configError("JWT RefreshTTL must be a whole number of seconds")
	}
	if c.JWT.AccessTTL >= c.JWT.RefreshTTL {
		return configError("JWT AccessTTL must be shorter than RefreshTTL")
	}
	if c.JWT.Leeway < 0 || c.JWT.Leeway > 2*time.Minute {
		return configError("JWT Leeway must be within [0, 2m]")
	}

	// Session
	if strings.TrimSpace(c.Session.RedisPrefix) == "" {
		return configError("Session RedisPrefix must not be empty")
	}

	// Password
	switch c.Password.Algorithm {
	case "", password.AlgorithmBcrypt:
		if err := password.ValidateCost(c.Password.Cost); err != nil {
			return fmt.Errorf("%w: Password Cost: %w", ErrInternalConfig, err)
		}
	case password.AlgorithmArgon2id:
		if _, err := password.NewArgon2(c.Password.Argon2); err != nil {
			return fmt.Errorf("%w: Password Argon2: %w", ErrInternalConfig, err)
		}
	default:
		return configError(fmt.Sprintf("unsupported Password Algorithm %q", c.Password.Algorithm))
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return configError("Audit BufferSize must be > 0 when audit is enabled")
	}

	return nil
}

func configError(msg string) error {
	return fmt.Errorf("%w: %s", ErrInternalConfig, msg)
}
