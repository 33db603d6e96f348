package prometheus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrEthical07/sessionauth"
	"github.com/MrEthical07/sessionauth/directory"
)

type fakeSource struct {
	snapshot sessionauth.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() sessionauth.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                         { return f.dropped }

func emptySnapshot() sessionauth.MetricsSnapshot {
	return sessionauth.MetricsSnapshot{
		Counters:   map[sessionauth.MetricID]uint64{},
		Histograms: map[sessionauth.MetricID][]uint64{},
	}
}

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewExporter(fakeSource{snapshot: emptySnapshot()})
	assert.Empty(t, exp.Render())
}

func TestRenderIncludesCountersAndHistogram(t *testing.T) {
	exp := NewExporter(fakeSource{
		snapshot: sessionauth.MetricsSnapshot{
			Counters: map[sessionauth.MetricID]uint64{
				sessionauth.MetricLoginSuccess:    7,
				sessionauth.MetricRefreshMismatch: 2,
			},
			Histograms: map[sessionauth.MetricID][]uint64{
				sessionauth.MetricValidateLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
		dropped: 2,
	})

	out := exp.Render()
	assert.Contains(t, out, "sessionauth_login_success_total 7")
	assert.Contains(t, out, "sessionauth_refresh_mismatch_total 2")
	assert.Contains(t, out, "sessionauth_register_success_total 0")
	assert.Contains(t, out, `sessionauth_validate_latency_seconds_bucket{le="0.001"} 1`)
	assert.Contains(t, out, `sessionauth_validate_latency_seconds_bucket{le="+Inf"} 36`)
	assert.Contains(t, out, "sessionauth_validate_latency_seconds_count 36")
	assert.Contains(t, out, "sessionauth_audit_dropped_total 2")
}

func TestRenderSkipsHistogramWhenLatencyDisabled(t *testing.T) {
	exp := NewExporter(fakeSource{
		snapshot: sessionauth.MetricsSnapshot{
			Counters:   map[sessionauth.MetricID]uint64{sessionauth.MetricLoginSuccess: 1},
			Histograms: map[sessionauth.MetricID][]uint64{},
		},
	})

	out := exp.Render()
	assert.Contains(t, out, "sessionauth_login_success_total 1")
	assert.NotContains(t, out, "sessionauth_validate_latency_seconds")
}

func TestHandlerWritesPrometheusContentType(t *testing.T) {
	exp := NewExporter(fakeSource{
		snapshot: sessionauth.MetricsSnapshot{
			Counters:   map[sessionauth.MetricID]uint64{sessionauth.MetricLoginSuccess: 1},
			Histograms: map[sessionauth.MetricID][]uint64{},
		},
	})

	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
}

func TestRenderFromEngine(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := sessionauth.DefaultConfig()
	cfg.JWT.Secret = []byte("0123456789abcdef0123456789abcdef")
	cfg.Password.Cost = 4
	cfg.Metrics.EnableLatencyHistograms = true

	engine, err := sessionauth.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithDirectory(directory.NewMemory()).
		Build()
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	ctx := context.Background()
	_, err = engine.Register(ctx, sessionauth.RegisterRequest{Email: "ada@example.com", Password: "Secr3t!pw", Name: "Ada"})
	require.NoError(t, err)
	_, err = engine.Login(ctx, "ada@example.com", "Secr3t!pw")
	require.NoError(t, err)
	_, _ = engine.AuthenticateHeader("Token nope")

	out := NewExporter(engine).Render()
	assert.Contains(t, out, "sessionauth_login_success_total 1")
	assert.Contains(t, out, "sessionauth_register_success_total 1")
	assert.Contains(t, out, "sessionauth_guard_rejected_total 1")
	assert.Contains(t, out, `sessionauth_validate_latency_seconds_bucket{le="+Inf"} 1`)
}

func BenchmarkRender(b *testing.B) {
	exp := NewExporter(fakeSource{
		snapshot: sessionauth.MetricsSnapshot{
			Counters: map[sessionauth.MetricID]uint64{
				sessionauth.MetricLoginSuccess:   1000,
				sessionauth.MetricLoginFailure:   40,
				sessionauth.MetricRefreshSuccess: 800,
				sessionauth.MetricRefreshFailure: 10,
				sessionauth.MetricSessionCreated: 800,
			},
			Histograms: map[sessionauth.MetricID][]uint64{
				sessionauth.MetricValidateLatency: {10, 20, 30, 40, 50, 60, 70, 80},
			},
		},
	})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = exp.Render()
	}
}
