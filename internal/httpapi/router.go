package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/MrEthical07/sessionauth"
	"github.com/MrEthical07/sessionauth/middleware"
)

// RefreshCookie is the cookie carrying the refresh token.
const RefreshCookie = "refresh_token"

// Service is the engine surface the handlers use. *sessionauth.Engine
// implements it.
type Service interface {
	middleware.Authenticator
	Register(ctx context.Context, req sessionauth.RegisterRequest) (sessionauth.RegisterResult, error)
	Login(ctx context.Context, email, password string) (sessionauth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Profile(ctx context.Context, subject string) (sessionauth.UserPublic, error)
	Ping(ctx context.Context) error
	RefreshTTL() time.Duration
}

// Options configures the router.
type Options struct {
	Service Service
	Logger  sessionauth.Logger
	// SecureCookies marks the refresh cookie Secure. Turn it on in production.
	SecureCookies bool
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
	// AllowOrigins defaults to any origin.
	AllowOrigins []string
	Debug        bool
}

type handlers struct {
	svc          Service
	logger       sessionauth.Logger
	validate     *validator.Validate
	secureCookie bool
}

// NewRouter builds the gin engine with recovery, request logging, CORS and
// every route registered.
func NewRouter(opts Options) (*gin.Engine, error) {
	if opts.Service == nil {
		return nil, errors.New("httpapi: service is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = nopLogger{}
	}

	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	h := &handlers{
		svc:          opts.Service,
		logger:       logger,
		validate:     newValidator(),
		secureCookie: opts.SecureCookies,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))

	origins := opts.AllowOrigins
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		// Credentials rule out a literal "*", so echo the caller's origin.
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		corsCfg.AllowOrigins = origins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/healthz", h.health)
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	api := r.Group("/api")
	api.POST("/user", h.register)
	api.GET("/user", middleware.GinGuard(opts.Service), h.profile)

	auth := api.Group("/auth")
	auth.POST("/login", h.login)
	auth.POST("/refresh", h.refresh)

	r.NoRoute(func(c *gin.Context) {
		writeStatus(c, http.StatusNotFound, "Cannot "+c.Request.Method+" "+c.Request.URL.Path)
	})

	return r, nil
}

func requestLogger(logger sessionauth.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

type nopLogger struct{}

func (nopLogger) Debug(interface{}, ...interface{}) {}
func (nopLogger) Info(interface{}, ...interface{})  {}
func (nopLogger) Warn(interface{}, ...interface{})  {}
func (nopLogger) Error(interface{}, ...interface{}) {}
