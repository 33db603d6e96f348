package sessionauth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/sessionauth/directory"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

const (
	testEmail    = "a@b.com"
	testPassword = "Str0ng!pw"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Unix(1_700_000_000, 0)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type testEnv struct {
	engine *Engine
	mr     *miniredis.Miniredis
	rdb    *redis.Client
	dir    *directory.Memory
	clock  *testClock
}

// advance moves both the token clock and Redis TTLs forward.
func (env *testEnv) advance(d time.Duration) {
	env.clock.Advance(d)
	env.mr.FastForward(d)
}

func newTestRedis(t testing.TB) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return mr, rdb
}

func newTestEnv(t testing.TB, mutate func(*Config, *Builder)) *testEnv {
	t.Helper()
	mr, rdb := newTestRedis(t)
	dir := directory.NewMemory()
	clock := newTestClock()

	cfg := DefaultConfig()
	cfg.JWT.Secret = []byte("0123456789abcdef0123456789abcdef")
	cfg.Password.Cost = 4

	b := New().WithRedis(rdb).WithDirectory(dir).WithClock(clock.Now)
	if mutate != nil {
		mutate(&cfg, b)
	}
	engine, err := b.WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return &testEnv{engine: engine, mr: mr, rdb: rdb, dir: dir, clock: clock}
}

func (env *testEnv) register(t testing.TB, email, password string) RegisterResult {
	t.Helper()
	res, err := env.engine.Register(context.Background(), RegisterRequest{
		Email:        email,
		Password:     password,
		Name:         "A",
		PersonalInfo: "x",
	})
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", email, err)
	}
	return res
}
