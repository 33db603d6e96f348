// Package config loads process settings from a .env file, the environment and
// an optional YAML file, and turns them into an engine configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/MrEthical07/sessionauth"
	"github.com/MrEthical07/sessionauth/password"
)

// Setting keys. They double as environment variable names.
const (
	KeyJWTSecret         = "JWT_SECRET"
	KeySaltRounds        = "SALT_ROUNDS"
	KeyPasswordAlgorithm = "PASSWORD_ALGORITHM"
	KeyAccessTTL         = "ACCESS_TTL"
	KeyRefreshTTL        = "REFRESH_TTL"
	KeyDatabaseURL       = "DATABASE_URL"
	KeyPostgresUser      = "POSTGRES_USER"
	KeyPostgresPassword  = "POSTGRES_PASSWORD"
	KeyPostgresDB        = "POSTGRES_DB"
	KeyPostgresHost      = "POSTGRES_HOST"
	KeyPostgresPort      = "POSTGRES_PORT"
	KeyRedisAddr         = "REDIS_ADDR"
	KeyRedisHost         = "REDIS_HOST"
	KeyRedisPort         = "REDIS_PORT"
	KeyRedisPassword     = "REDIS_PASSWORD"
	KeyRedisDB           = "REDIS_DB"
	KeyPort              = "PORT"
	KeyAppEnv            = "APP_ENV"
	KeyLogLevel          = "LOG_LEVEL"
	KeyLogFormat         = "LOG_FORMAT"
	KeyAuditLog          = "AUDIT_LOG"
)

// ErrInvalid wraps every validation failure from Load.
var ErrInvalid = errors.New("config: invalid setting")

// Redis holds the session store connection settings.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Config is everything the serve and migrate commands need.
type Config struct {
	JWTSecret         string
	SaltRounds        int
	PasswordAlgorithm password.Algorithm
	AccessTTL         time.Duration
	RefreshTTL        time.Duration
	DatabaseURL       string
	Redis             Redis
	Port              int
	AppEnv            string
	LogLevel          string
	LogFormat         string
	AuditLog          bool
}

// Options controls where Load reads from.
type Options struct {
	// EnvFiles are loaded with godotenv before the environment is read. Missing
	// files are skipped. Variables already set in the environment win.
	EnvFiles []string
	// ConfigFile is an optional YAML file using the same keys in any case.
	ConfigFile string
	// Viper lets callers pass an instance with flags already bound.
	Viper *viper.Viper
}

// NewViper returns a viper instance with defaults and environment lookup set up.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyPasswordAlgorithm, string(password.AlgorithmBcrypt))
	v.SetDefault(KeyAccessTTL, "60s")
	v.SetDefault(KeyRefreshTTL, "3600s")
	v.SetDefault(KeyPostgresHost, "localhost")
	v.SetDefault(KeyPostgresPort, 5432)
	v.SetDefault(KeyRedisHost, "localhost")
	v.SetDefault(KeyRedisPort, 6379)
	v.SetDefault(KeyRedisDB, 0)
	v.SetDefault(KeyPort, 3000)
	v.SetDefault(KeyAppEnv, "development")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyAuditLog, false)
	v.AutomaticEnv()
	return v
}

// Load reads and validates the settings. Security relevant values have no
// defaults: a missing JWT_SECRET, or a missing or malformed SALT_ROUNDS with
// bcrypt, fails.
func Load(opts Options) (Config, error) {
	for _, file := range opts.EnvFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	v := opts.Viper
	if v == nil {
		v = NewViper()
	}
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read %s: %w", opts.ConfigFile, err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		JWTSecret:         v.GetString(KeyJWTSecret),
		PasswordAlgorithm: password.Algorithm(strings.ToLower(strings.TrimSpace(v.GetString(KeyPasswordAlgorithm)))),
		AppEnv:            strings.TrimSpace(v.GetString(KeyAppEnv)),
		LogLevel:          v.GetString(KeyLogLevel),
		LogFormat:         v.GetString(KeyLogFormat),
		AuditLog:          v.GetBool(KeyAuditLog),
		Redis: Redis{
			Password: v.GetString(KeyRedisPassword),
		},
	}

	if len(cfg.JWTSecret) == 0 {
		return Config{}, invalid(KeyJWTSecret, "is required")
	}

	switch cfg.PasswordAlgorithm {
	case password.AlgorithmBcrypt:
		raw := v.GetString(KeySaltRounds)
		if strings.TrimSpace(raw) == "" {
			return Config{}, invalid(KeySaltRounds, "is required")
		}
		cost, err := password.ParseCost(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalid, KeySaltRounds, err)
		}
		cfg.SaltRounds = cost
	case password.AlgorithmArgon2id:
	default:
		return Config{}, invalid(KeyPasswordAlgorithm, fmt.Sprintf("unsupported value %q", cfg.PasswordAlgorithm))
	}

	var err error
	if cfg.AccessTTL, err = parseTTL(v.GetString(KeyAccessTTL)); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalid, KeyAccessTTL, err)
	}
	if cfg.RefreshTTL, err = parseTTL(v.GetString(KeyRefreshTTL)); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalid, KeyRefreshTTL, err)
	}

	if cfg.Port, err = intSetting(v, KeyPort); err != nil {
		return Config{}, err
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, invalid(KeyPort, "must be between 1 and 65535")
	}
	if cfg.Redis.DB, err = intSetting(v, KeyRedisDB); err != nil {
		return Config{}, err
	}

	cfg.Redis.Addr = strings.TrimSpace(v.GetString(KeyRedisAddr))
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = net.JoinHostPort(v.GetString(KeyRedisHost), v.GetString(KeyRedisPort))
	}

	cfg.DatabaseURL = strings.TrimSpace(v.GetString(KeyDatabaseURL))
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = postgresURL(v)
	}

	return cfg, nil
}

// Production reports whether APP_ENV is production. Cookies are marked Secure
// only then.
func (c Config) Production() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Engine maps the settings onto an engine configuration.
func (c Config) Engine() sessionauth.Config {
	out := sessionauth.DefaultConfig()
	out.JWT.Secret = []byte(c.JWTSecret)
	out.JWT.AccessTTL = c.AccessTTL
	out.JWT.RefreshTTL = c.RefreshTTL
	out.Password.Algorithm = c.PasswordAlgorithm
	out.Password.Cost = c.SaltRounds
	out.Audit.Enabled = c.AuditLog
	return out
}

// parseTTL accepts a Go duration ("90s", "1h") or a bare number of seconds.
func parseTTL(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("is empty")
	}
	var d time.Duration
	if secs, err := strconv.Atoi(raw); err == nil {
		d = time.Duration(secs) * time.Second
	} else {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return 0, fmt.Errorf("%q is not a duration", raw)
		}
		d = parsed
	}
	if d < time.Second || d%time.Second != 0 {
		return 0, fmt.Errorf("%s must be a whole number of seconds, at least 1s", d)
	}
	return d, nil
}

func intSetting(v *viper.Viper, key string) (int, error) {
	raw := strings.TrimSpace(v.GetString(key))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalid(key, fmt.Sprintf("%q is not an integer", raw))
	}
	return n, nil
}

func postgresURL(v *viper.Viper) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(v.GetString(KeyPostgresHost), v.GetString(KeyPostgresPort)),
		Path:   "/" + v.GetString(KeyPostgresDB),
	}
	if user := v.GetString(KeyPostgresUser); user != "" {
		u.User = url.UserPassword(user, v.GetString(KeyPostgresPassword))
	}
	return u.String()
}

func invalid(key, msg string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalid, key, msg)
}
