package sessionauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/sessionauth/jwt"
)

func TestRegisterLoginExpireRefreshScenario(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	reg := env.register(t, testEmail, testPassword)
	if reg.ID != 1 || reg.Email != testEmail {
		t.Fatalf("Register = %+v, want {1 a@b.com}", reg)
	}

	pair, err := env.engine.Login(ctx, testEmail, testPassword)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}

	p, err := env.engine.AuthenticateHeader("Bearer " + pair.AccessToken)
	if err != nil {
		t.Fatalf("fresh access token rejected: %v", err)
	}
	if p.Subject != testEmail {
		t.Fatalf("subject = %q", p.Subject)
	}

	env.advance(61 * time.Second)

	if _, err := env.engine.AuthenticateHeader("Bearer " + pair.AccessToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expired access token: expected ErrUnauthorized, got %v", err)
	}

	access, err := env.engine.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if _, err := env.engine.AuthenticateHeader("Bearer " + access); err != nil {
		t.Fatalf("refreshed access token rejected: %v", err)
	}
}

func TestLoginStoresRefreshToken(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, testEmail, testPassword)

	pair, err := env.engine.Login(context.Background(), testEmail, testPassword)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	stored, err := env.mr.Get("refresh:" + testEmail)
	if err != nil {
		t.Fatalf("refresh key missing: %v", err)
	}
	if stored != pair.RefreshToken {
		t.Fatal("stored refresh token differs from issued one")
	}
	if ttl := env.mr.TTL("refresh:" + testEmail); ttl != time.Hour {
		t.Fatalf("refresh ttl = %v, want 1h", ttl)
	}
}

func TestSecondLoginInvalidatesFirstRefreshToken(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, testEmail, testPassword)
	ctx := context.Background()

	first, err := env.engine.Login(ctx, testEmail, testPassword)
	if err != nil {
		t.Fatalf("first Login failed: %v", err)
	}
	second, err := env.engine.Login(ctx, testEmail, testPassword)
	if err != nil {
		t.Fatalf("second Login failed: %v", err)
	}

	if _, err := env.engine.Refresh(ctx, first.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("superseded refresh token: expected ErrUnauthorized, got %v", err)
	}
	if _, err := env.engine.Refresh(ctx, second.RefreshToken); err != nil {
		t.Fatalf("current refresh token rejected: %v", err)
	}

	snap := env.engine.MetricsSnapshot()
	if snap.Counters[MetricRefreshMismatch] != 1 {
		t.Fatalf("MetricRefreshMismatch = %d, want 1", snap.Counters[MetricRefreshMismatch])
	}
	if snap.Counters[MetricSessionCreated] != 2 {
		t.Fatalf("MetricSessionCreated = %d, want 2", snap.Counters[MetricSessionCreated])
	}
}

func TestRefreshDoesNotRotate(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, testEmail, testPassword)
	ctx := context.Background()

	pair, err := env.engine.Login(ctx, testEmail, testPassword)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := env.engine.Refresh(ctx, pair.RefreshToken); err != nil {
			t.Fatalf("refresh %d failed: %v", i, err)
		}
	}
	stored, _ := env.mr.Get("refresh:" + testEmail)
	if stored != pair.RefreshToken {
		t.Fatal("refresh mutated the stored token")
	}
}

func TestLoginRejectsBadCredentialsUniformly(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, testEmail, testPassword)
	ctx := context.Background()

	_, errUnknown := env.engine.Login(ctx, "nobody@b.com", testPassword)
	_, errWrong := env.engine.Login(ctx, testEmail, "Wr0ng!pw")

	if !errors.Is(errUnknown, ErrInvalidCredentials) || !errors.Is(errWrong, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v / %v", errUnknown, errWrong)
	}
	if errUnknown.Error() != errWrong.Error() {
		t.Fatalf("errors must not reveal which check failed: %q vs %q", errUnknown, errWrong)
	}
	if env.mr.Exists("refresh:"+testEmail) || env.mr.Exists("refresh:nobody@b.com") {
		t.Fatal("failed login must not write a session record")
	}
}

func TestRefreshRejections(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, testEmail, testPassword)
	ctx := context.Background()

	_, err := env.engine.Refresh(ctx, "not-a-token")
	if !errors.Is(err, ErrUnauthorized) || !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("malformed token: expected ErrUnauthorized wrapping ErrTokenMalformed, got %v", err)
	}

	if _, err := env.engine.Refresh(ctx, ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("empty token: expected ErrUnauthorized, got %v", err)
	}

	// Decodable token for a subject with no session record.
	issuer, err := jwt.NewManager(jwt.Config{Secret: []byte("0123456789abcdef0123456789abcdef"), Now: env.clock.Now})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	stray, err := issuer.IssuePair("ghost@b.com")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if _, err := env.engine.Refresh(ctx, stray.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("unknown subject: expected ErrUnauthorized, got %v", err)
	}

	// Decodable token for a real subject that was never stored.
	pair, err := env.engine.Login(ctx, testEmail, testPassword)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	forged, err := issuer.IssuePair(testEmail)
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if _, err := env.engine.Refresh(ctx, forged.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("mismatched token: expected ErrUnauthorized, got %v", err)
	}
	if _, err := env.engine.Refresh(ctx, pair.AccessToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("access token presented as refresh: expected ErrUnauthorized, got %v", err)
	}
}

func TestRefreshAfterRecordExpires(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, testEmail, testPassword)
	ctx := context.Background()

	pair, err := env.engine.Login(ctx, testEmail, testPassword)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	env.advance(3599 * time.Second)
	if _, err := env.engine.Refresh(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("refresh before record expiry failed: %v", err)
	}

	env.advance(2 * time.Second)
	if _, err := env.engine.Refresh(ctx, pair.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after record expiry, got %v", err)
	}
}

func TestAccessGuardRejections(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, testEmail, testPassword)

	pair, err := env.engine.Login(context.Background(), testEmail, testPassword)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	foreign, err := jwt.NewManager(jwt.Config{Secret: []byte("a-completely-different-secret!!!"), Now: env.clock.Now})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	forged, err := foreign.IssueAccess(testEmail)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	headers := map[string]string{
		"no header":        "",
		"no bearer prefix": pair.AccessToken,
		"wrong scheme":     "Basic " + pair.AccessToken,
		"three parts":      "Bearer " + pair.AccessToken + " extra",
		"garbage token":    "Bearer not.a.jwt",
		"foreign secret":   "Bearer " + forged,
	}
	for name, header := range headers {
		if _, err := env.engine.AuthenticateHeader(header); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("%s: expected ErrUnauthorized, got %v", name, err)
		}
	}

	if got := env.engine.MetricsSnapshot().Counters[MetricGuardRejected]; got != uint64(len(headers)) {
		t.Fatalf("MetricGuardRejected = %d, want %d", got, len(headers))
	}
}

func TestValidateAccessExpiryBoundary(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, testEmail, testPassword)

	pair, err := env.engine.Login(context.Background(), testEmail, testPassword)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	env.clock.Advance(59 * time.Second)
	p, err := env.engine.ValidateAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("token rejected before expiry: %v", err)
	}
	if !p.ExpiresAt.Equal(p.IssuedAt.Add(60 * time.Second)) {
		t.Fatalf("principal lifetime = %v", p.ExpiresAt.Sub(p.IssuedAt))
	}

	env.clock.Advance(time.Second)
	if _, err := env.engine.ValidateAccess(pair.AccessToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("token accepted at expiry: %v", err)
	}
}

func TestValidateCredentials(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, testEmail, testPassword)
	ctx := context.Background()

	u, err := env.engine.ValidateCredentials(ctx, testEmail, testPassword)
	if err != nil || u == nil {
		t.Fatalf("ValidateCredentials = %v, %v", u, err)
	}
	if u.Email != testEmail || u.Name != "A" || u.PersonalInfo != "x" {
		t.Fatalf("unexpected user %+v", u)
	}

	for _, tc := range [][2]string{{testEmail, "nope"}, {"nobody@b.com", testPassword}} {
		u, err := env.engine.ValidateCredentials(ctx, tc[0], tc[1])
		if err != nil || u != nil {
			t.Fatalf("ValidateCredentials(%s) = %v, %v; want nil, nil", tc[0], u, err)
		}
	}
	if env.mr.Exists("refresh:" + testEmail) {
		t.Fatal("ValidateCredentials must not create a session")
	}
}

func TestRegisterDuplicateAndProfile(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.register(t, testEmail, testPassword)

	if _, err := env.engine.Register(ctx, RegisterRequest{Email: testEmail, Password: "0ther!Pw"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	stored, err := env.dir.FindByEmail(ctx, testEmail)
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if stored.PasswordHash == testPassword || stored.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}

	profile, err := env.engine.Profile(ctx, testEmail)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if profile != (UserPublic{ID: 1, Email: testEmail, Name: "A", PersonalInfo: "x"}) {
		t.Fatalf("unexpected profile %+v", profile)
	}

	if _, err := env.engine.Profile(ctx, "nobody@b.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestStoreOutageIsNotUnauthorized(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, testEmail, testPassword)
	ctx := context.Background()

	pair, err := env.engine.Login(ctx, testEmail, testPassword)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	env.mr.Close()

	if _, err := env.engine.Login(ctx, testEmail, testPassword); !errors.Is(err, ErrSessionStoreUnavailable) {
		t.Fatalf("Login: expected ErrSessionStoreUnavailable, got %v", err)
	}
	_, err = env.engine.Refresh(ctx, pair.RefreshToken)
	if !errors.Is(err, ErrSessionStoreUnavailable) || errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Refresh: expected ErrSessionStoreUnavailable only, got %v", err)
	}
	if err := env.engine.Ping(ctx); !errors.Is(err, ErrSessionStoreUnavailable) {
		t.Fatalf("Ping: expected ErrSessionStoreUnavailable, got %v", err)
	}
}

func TestBuildRequiresDependencies(t *testing.T) {
	_, rdb := newTestRedis(t)

	cfg := DefaultConfig()
	cfg.Password.Cost = 4
	if _, err := New().WithConfig(cfg).WithRedis(rdb).WithDirectory(nil).Build(); !errors.Is(err, ErrInternalConfig) {
		t.Fatalf("missing secret: expected ErrInternalConfig, got %v", err)
	}

	cfg.JWT.Secret = []byte("0123456789abcdef0123456789abcdef")
	if _, err := New().WithConfig(cfg).Build(); !errors.Is(err, ErrInternalConfig) {
		t.Fatalf("missing redis: expected ErrInternalConfig, got %v", err)
	}
	if _, err := New().WithConfig(cfg).WithRedis(rdb).Build(); !errors.Is(err, ErrInternalConfig) {
		t.Fatalf("missing directory: expected ErrInternalConfig, got %v", err)
	}

	cfg.Password.Cost = 0
	if _, err := New().WithConfig(cfg).WithRedis(rdb).Build(); !errors.Is(err, ErrInternalConfig) {
		t.Fatalf("missing cost: expected ErrInternalConfig, got %v", err)
	}
}

func TestBuilderSingleUse(t *testing.T) {
	env := newTestEnv(t, nil)
	_, rdb := newTestRedis(t)

	cfg := validTestConfig()
	b := New().WithConfig(cfg).WithRedis(rdb).WithDirectory(env.dir)
	e, err := b.Build()
	if err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	defer e.Close()
	if _, err := b.Build(); err == nil {
		t.Fatal("expected second Build to fail")
	}
}

func TestNilEngine(t *testing.T) {
	var e *Engine
	ctx := context.Background()
	if _, err := e.Login(ctx, testEmail, testPassword); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("Login: %v", err)
	}
	if _, err := e.Refresh(ctx, "x"); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("Refresh: %v", err)
	}
	if _, err := e.AuthenticateHeader("Bearer x"); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("AuthenticateHeader: %v", err)
	}
	e.Close()
}
