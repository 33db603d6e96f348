package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// DefaultAccessTTL is the lifetime of an access token.
	DefaultAccessTTL = 60 * time.Second
	// DefaultRefreshTTL is the lifetime of a refresh token.
	DefaultRefreshTTL = 3600 * time.Second

	minSecretBytes = 16
)

var (
	// ErrTokenMalformed is returned when a token cannot be parsed at all.
	ErrTokenMalformed = errors.New("jwt: token malformed")
	// ErrTokenInvalid is returned by Verify for bad signatures, wrong algorithms,
	// expired tokens and missing required claims.
	ErrTokenInvalid = errors.New("jwt: token invalid")
	// ErrSigning is returned when a token cannot be signed.
	ErrSigning = errors.New("jwt: signing failed")
	// ErrMissingSecret is returned by NewManager when no secret is configured.
	ErrMissingSecret = errors.New("jwt: signing secret is required")
)

// Config holds the signing secret and token lifetimes.
type Config struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Issuer     string
	Leeway     time.Duration
	// Now overrides the clock used for iat/exp and for expiry checks.
	Now func() time.Time
}

// Claims is the payload carried by both token classes.
type Claims struct {
	jwt.RegisteredClaims
}

// Pair is the result of a successful login.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Manager signs and reads tokens. It is immutable after NewManager and safe for
// concurrent use.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	leeway     time.Duration
	now        func() time.Time
}

// NewManager validates cfg. Zero lifetimes fall back to the defaults; the secret
// never does.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrMissingSecret
	}
	if len(cfg.Secret) < minSecretBytes {
		return nil, fmt.Errorf("jwt: signing secret must be at least %d bytes", minSecretBytes)
	}
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	if cfg.AccessTTL < 0 || cfg.RefreshTTL < 0 {
		return nil, errors.New("jwt: invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("jwt: invalid leeway configuration")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	return &Manager{
		secret:     secret,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		issuer:     strings.TrimSpace(cfg.Issuer),
		leeway:     cfg.Leeway,
		now:        cfg.Now,
	}, nil
}

// AccessTTL returns the configured access-token lifetime.
func (m *Manager) AccessTTL() time.Duration { return m.accessTTL }

// RefreshTTL returns the configured refresh-token lifetime.
func (m *Manager) RefreshTTL() time.Duration { return m.refreshTTL }

// IssuePair signs an access token and a refresh token for subject.
func (m *Manager) IssuePair(subject string) (Pair, error) {
	access, err := m.sign(subject, m.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := m.sign(subject, m.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

// IssueAccess signs a fresh access token for subject.
func (m *Manager) IssueAccess(subject string) (string, error) {
	return m.sign(subject, m.accessTTL)
}

// Decode reads the claims of token without checking its signature or expiry.
// Callers must establish authenticity some other way.
func (m *Manager) Decode(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenMalformed)
	}
	return claims, nil
}

// Verify checks the signature, algorithm and expiry of token and returns its
// claims.
func (m *Manager) Verify(token string) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.leeway > 0 {
		options = append(options, jwt.WithLeeway(m.leeway))
	}
	if m.issuer != "" {
		options = append(options, jwt.WithIssuer(m.issuer))
	}

	parsed, err := jwt.NewParser(options...).ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, fmt.Errorf("%w: %w", ErrTokenMalformed, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}
	return claims, nil
}

func (m *Manager) sign(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("%w: empty subject", ErrSigning)
	}

	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    m.issuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSigning, err)
	}
	return signed, nil
}
