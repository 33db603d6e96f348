package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/MrEthical07/sessionauth"
	"github.com/MrEthical07/sessionauth/directory"
)

const loadtestPassword = "L0adtest!pw"

type loadtestOptions struct {
	users       int
	concurrency int
	ops         int
	redisAddr   string
	cost        int
}

func newLoadtestCmd() *cobra.Command {
	opts := loadtestOptions{}
	cmd := &cobra.Command{
		Use:   "loadtest",
		Short: "Measure login, access check and refresh latency in process",
		Long: `loadtest registers users in memory, then runs login, access check and
refresh phases against Redis (an embedded miniredis unless --redis-addr is set)
and prints throughput and latency percentiles.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.users <= 0 || opts.concurrency <= 0 || opts.ops <= 0 {
				return fmt.Errorf("users, concurrency and ops must be > 0")
			}
			return runLoadtest(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().IntVar(&opts.users, "users", 100, "number of users to register")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 64, "number of concurrent workers")
	cmd.Flags().IntVar(&opts.ops, "ops", 5000, "operations per phase")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "", "redis address; embedded miniredis when empty")
	cmd.Flags().IntVar(&opts.cost, "cost", 4, "bcrypt work factor")
	return cmd
}

type userState struct {
	email string
	mu    sync.Mutex
	pair  sessionauth.TokenPair
}

func runLoadtest(ctx context.Context, out io.Writer, opts loadtestOptions) error {
	addr := opts.redisAddr
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return fmt.Errorf("start miniredis: %w", err)
		}
		defer mr.Close()
		addr = mr.Addr()
		fmt.Fprintf(out, "using miniredis at %s\n", addr)
	} else {
		fmt.Fprintf(out, "using redis at %s\n", addr)
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	cfg := sessionauth.DefaultConfig()
	cfg.JWT.Secret = []byte(fmt.Sprintf("loadtest-%d-secret-material", time.Now().UnixNano()))
	cfg.Password.Cost = opts.cost
	cfg.Session.RedisPrefix = "loadtest-refresh"

	engine, err := sessionauth.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithDirectory(directory.NewMemory()).
		Build()
	if err != nil {
		return err
	}
	defer engine.Close()

	users := make([]*userState, opts.users)
	start := time.Now()
	for i := range users {
		email := fmt.Sprintf("user-%d@loadtest.local", i)
		if _, err := engine.Register(ctx, sessionauth.RegisterRequest{
			Email: email, Password: loadtestPassword, Name: "load", PersonalInfo: "test",
		}); err != nil {
			return fmt.Errorf("register %s: %w", email, err)
		}
		users[i] = &userState{email: email}
	}
	fmt.Fprintf(out, "registered %d users in %s\n", len(users), time.Since(start).Round(time.Millisecond))

	login := runPhase(opts.ops, opts.concurrency, func(i int) error {
		u := users[i%len(users)]
		u.mu.Lock()
		defer u.mu.Unlock()
		pair, err := engine.Login(ctx, u.email, loadtestPassword)
		if err == nil {
			u.pair = pair
		}
		return err
	})

	validate := runPhase(opts.ops, opts.concurrency, func(int) error {
		u := users[rand.IntN(len(users))]
		u.mu.Lock()
		token := u.pair.AccessToken
		u.mu.Unlock()
		_, err := engine.AuthenticateHeader("Bearer " + token)
		return err
	})

	refresh := runPhase(opts.ops, opts.concurrency, func(int) error {
		u := users[rand.IntN(len(users))]
		u.mu.Lock()
		token := u.pair.RefreshToken
		u.mu.Unlock()
		_, err := engine.Refresh(ctx, token)
		return err
	})

	fmt.Fprintln(out, "---- results ----")
	printStats(out, "login", login)
	printStats(out, "validate", validate)
	printStats(out, "refresh", refresh)
	return nil
}

// runPhase runs op ops times over concurrency workers and records each latency.
func runPhase(ops, concurrency int, op func(i int) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				err := op(i)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total, failures: failures}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	s := phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
	}
	if total > 0 {
		s.opsPerS = float64(len(samples)) / total.Seconds()
	}
	return s
}

// percentile expects sorted samples.
func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	return samples[(len(samples)-1)*p/100]
}

func printStats(out io.Writer, name string, s phaseStats) {
	fmt.Fprintf(out, "%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
