package sessionauth

import (
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/sessionauth/password"
)

func validTestConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.Secret = []byte("0123456789abcdef0123456789abcdef")
	cfg.Password.Cost = 4
	return cfg
}

func TestDefaultConfigHasSecurityGaps(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); !errors.Is(err, ErrInternalConfig) {
		t.Fatalf("expected default config without secret to fail, got %v", err)
	}

	cfg.JWT.Secret = []byte("0123456789abcdef0123456789abcdef")
	if err := cfg.Validate(); !errors.Is(err, ErrInternalConfig) {
		t.Fatalf("expected default config without cost to fail, got %v", err)
	}
	if err := cfg.Validate(); !errors.Is(err, password.ErrInvalidCost) {
		t.Fatalf("expected wrapped ErrInvalidCost, got %v", err)
	}
}

func TestDefaultConfigLifetimes(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.JWT.AccessTTL != 60*time.Second {
		t.Fatalf("AccessTTL = %v", cfg.JWT.AccessTTL)
	}
	if cfg.JWT.RefreshTTL != 3600*time.Second {
		t.Fatalf("RefreshTTL = %v", cfg.JWT.RefreshTTL)
	}
	if cfg.Session.RedisPrefix != "refresh" {
		t.Fatalf("RedisPrefix = %q", cfg.Session.RedisPrefix)
	}
}

func TestConfigValidate(t *testing.T) {
	if cfg := validTestConfig(); cfg.Validate() != nil {
		t.Fatalf("valid config rejected: %v", cfg.Validate())
	}

	cases := map[string]func(*Config){
		"short secret":         func(c *Config) { c.JWT.Secret = []byte("short") },
		"zero access ttl":      func(c *Config) { c.JWT.AccessTTL = 0 },
		"zero refresh ttl":     func(c *Config) { c.JWT.RefreshTTL = 0 },
		"fractional refresh":   func(c *Config) { c.JWT.RefreshTTL = 1500 * time.Millisecond },
		"access >= refresh":    func(c *Config) { c.JWT.AccessTTL = c.JWT.RefreshTTL },
		"negative leeway":      func(c *Config) { c.JWT.Leeway = -time.Second },
		"empty prefix":         func(c *Config) { c.Session.RedisPrefix = " " },
		"cost too low":         func(c *Config) { c.Password.Cost = 3 },
		"cost too high":        func(c *Config) { c.Password.Cost = 32 },
		"unknown algorithm":    func(c *Config) { c.Password.Algorithm = "md5" },
		"weak argon2":          func(c *Config) { c.Password.Algorithm = password.AlgorithmArgon2id; c.Password.Argon2.Memory = 1 },
		"audit without buffer": func(c *Config) { c.Audit.Enabled = true; c.Audit.BufferSize = 0 },
	}
	for name, mutate := range cases {
		cfg := validTestConfig()
		mutate(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInternalConfig) {
			t.Fatalf("%s: expected ErrInternalConfig, got %v", name, err)
		}
	}
}

func TestConfigArgon2DoesNotNeedCost(t *testing.T) {
	cfg := validTestConfig()
	cfg.Password.Algorithm = password.AlgorithmArgon2id
	cfg.Password.Cost = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("argon2id config rejected: %v", err)
	}
}

func TestCloneConfigCopiesSecret(t *testing.T) {
	cfg := validTestConfig()
	clone := cloneConfig(cfg)
	cfg.JWT.Secret[0] = 'X'
	if clone.JWT.Secret[0] == 'X' {
		t.Fatal("clone shares the secret slice")
	}
}
