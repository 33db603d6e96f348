package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/MrEthical07/sessionauth"
	"github.com/MrEthical07/sessionauth/directory"
	"github.com/MrEthical07/sessionauth/internal/config"
	"github.com/MrEthical07/sessionauth/internal/httpapi"
	"github.com/MrEthical07/sessionauth/internal/logging"
	"github.com/MrEthical07/sessionauth/metrics/export/prometheus"
)

const (
	startupTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var migrate bool
	v := config.NewViper()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(config.Options{EnvFiles: opts.envFiles, ConfigFile: opts.configFile, Viper: v})
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger, migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	cmd.Flags().Int("port", 3000, "listen port")
	cmd.Flags().String("log-level", "info", "debug, info, warn or error")
	_ = v.BindPFlag(config.KeyPort, cmd.Flags().Lookup("port"))
	_ = v.BindPFlag(config.KeyLogLevel, cmd.Flags().Lookup("log-level"))
	return cmd
}

func serve(ctx context.Context, cfg config.Config, logger *clog.Logger, migrate bool) error {
	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if err := rdb.Ping(startCtx).Err(); err != nil {
		return fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
	}
	logger.Info("redis connected", "addr", cfg.Redis.Addr)

	db, err := directory.Open(startCtx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("postgres connected")

	if migrate {
		if err := directory.Migrate(startCtx, db); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	builder := sessionauth.New().
		WithConfig(cfg.Engine()).
		WithRedis(rdb).
		WithDirectory(directory.NewPostgres(db)).
		WithLogger(logger)
	if cfg.AuditLog {
		builder = builder.WithAuditSink(sessionauth.NewJSONWriterSink(os.Stdout))
	}
	engine, err := builder.Build()
	if err != nil {
		return err
	}
	defer engine.Close()

	router, err := httpapi.NewRouter(httpapi.Options{
		Service:       engine,
		Logger:        logger,
		SecureCookies: cfg.Production(),
		Metrics:       prometheus.NewExporter(engine).Handler(),
		Debug:         cfg.LogLevel == "debug",
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", srv.Addr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
