package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrEthical07/sessionauth"
	"github.com/MrEthical07/sessionauth/directory"
)

const (
	email    = "ada@example.com"
	password = "Secr3t!pw"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newEngine(t *testing.T) (*sessionauth.Engine, *clock) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := sessionauth.DefaultConfig()
	cfg.JWT.Secret = []byte("0123456789abcdef0123456789abcdef")
	cfg.Password.Cost = 4

	clk := &clock{now: time.Unix(1_700_000_000, 0)}
	engine, err := sessionauth.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithDirectory(directory.NewMemory()).
		WithClock(clk.Now).
		Build()
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	_, err = engine.Register(context.Background(), sessionauth.RegisterRequest{
		Email: email, Password: password, Name: "Ada", PersonalInfo: "x",
	})
	require.NoError(t, err)
	return engine, clk
}

func accessToken(t *testing.T, engine *sessionauth.Engine) string {
	t.Helper()
	pair, err := engine.Login(context.Background(), email, password)
	require.NoError(t, err)
	return pair.AccessToken
}

func TestGuardAttachesPrincipal(t *testing.T) {
	engine, _ := newEngine(t)
	token := accessToken(t, engine)

	var subject string
	h := Guard(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject = sessionauth.SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, email, subject)
}

func TestGuardRejects(t *testing.T) {
	engine, clk := newEngine(t)
	token := accessToken(t, engine)

	called := false
	h := Guard(engine)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	cases := map[string]string{
		"missing":          "",
		"no scheme":        token,
		"wrong scheme":     "Token " + token,
		"extra part":       "Bearer " + token + " extra",
		"garbage token":    "Bearer not-a-jwt",
		"tampered":         "Bearer " + token + "x",
		"scheme only":      "Bearer",
		"empty after trim": "Bearer   ",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}

	clk.now = clk.now.Add(61 * time.Second)
	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "expired token must be rejected")

	assert.False(t, called)
}

func TestGuardNilEngine(t *testing.T) {
	h := Guard(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGinGuard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine, _ := newEngine(t)
	token := accessToken(t, engine)

	r := gin.New()
	r.GET("/api/user", GinGuard(engine), func(c *gin.Context) {
		p, ok := PrincipalFromGin(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, p.Subject+"|"+sessionauth.SubjectFromContext(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	req.Header.Set("Authorization", "bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, email+"|"+email, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/user", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"statusCode":401,"message":"Unauthorized","error":"Unauthorized"}`, rec.Body.String())
}
