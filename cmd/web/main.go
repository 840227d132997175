package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"mvphrm/internal/apiclient"
	"mvphrm/internal/attendance"
	"mvphrm/internal/config"
	"mvphrm/internal/employee"
	"mvphrm/internal/httpmiddleware"
	"mvphrm/internal/logging"
	"mvphrm/internal/logship"
	"mvphrm/internal/query"
	"mvphrm/internal/queue"
	"mvphrm/internal/store"
	"mvphrm/internal/ui"
	"mvphrm/internal/uistate"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg, logger); err != nil {
		logger.Fatal("http server failed", zap.Error(err))
	}
}

func newLogger(cfg config.App) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Production() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return zap.NewExample()
	}
	return logger
}

func runHTTP(cfg config.App, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var redisClient *store.Redis
	if cfg.SessionBackend == "redis" || cfg.QueueBackend == "redis" {
		redisClient = store.NewRedis(cfg.RedisAddr)
		defer func() { _ = redisClient.Close() }()
	}

	var sessions store.SessionStore = store.NewMemorySessionStore(cfg.SessionTTL)
	if cfg.SessionBackend == "redis" {
		sessions = store.NewRedisSessionStore(redisClient.Client, cfg.SessionTTL)
	}

	var q queue.Queue
	if cfg.QueueBackend == "redis" {
		q = queue.NewRedisQueue(redisClient.Client, queue.DefaultRedisKey)
	} else {
		q = queue.NewInMemory(256)
		// no separate worker drains the in-memory queue
		go func() {
			if err := logship.NewShipper(cfg.LogSinkURL, logger).Run(ctx, q); err != nil {
				logger.Warn("log shipper exited", zap.Error(err))
			}
		}()
	}
	forwarder := logship.NewForwarder(q, cfg.SendLogs)

	loggers := logging.NewSet(logging.SetConfig{
		AppLevel:  logging.ParseLevelOr(cfg.AppLogLevel, logging.DefaultLevel),
		APILevel:  logging.ParseLevelOr(cfg.APILogLevel, logging.DefaultLevel),
		UILevel:   logging.ParseLevelOr(cfg.UILogLevel, logging.DefaultLevel),
		Console:   logging.NewConsole(os.Stdout),
		Forwarder: forwarder,
	})

	api := apiclient.New(cfg.BackendURL, loggers.API)
	queries := query.NewClient(cfg.QueryStaleTime, logger)
	pages := ui.NewHandler(
		employee.NewService(api, queries),
		attendance.NewService(api, queries),
		uistate.NewRegistry(cfg.SessionTTL),
		loggers,
		5*time.Second,
	)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(logger.Named("http")))
	r.Use(cors.New(corsConfig(cfg)))
	r.Use(securityHeaders())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		hctx, hcancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer hcancel()
		backendErr := api.Health(hctx)
		redisHealthy := redisClient == nil || redisClient.Healthy(hctx)
		status := http.StatusOK
		if backendErr != nil || !redisHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "backend": backendErr == nil})
	})

	// the log sink is called by the shipper, not by browsers
	r.POST("/api/logs", ui.LogSink(logger.Named("frontend")))
	r.PUT("/api/logs/forwarding", func(c *gin.Context) {
		var req struct {
			Enabled bool `json:"enabled"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		forwarder.SetEnabled(req.Enabled)
		c.JSON(http.StatusOK, gin.H{"enabled": forwarder.Enabled()})
	})

	site := r.Group("/")
	site.Use(httpmiddleware.NewRateLimiter(cfg.RateLimitPerMin).GinMiddleware())
	site.Use(httpmiddleware.Session(sessions, cfg.SessionTTL, logger.Named("session")))
	pages.Register(r, site)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr), zap.String("backend", cfg.BackendURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server forced shutdown", zap.Error(err))
	}

	logger.Info("server exited")
	return nil
}

func corsConfig(cfg config.App) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Correlation-ID"}
	c.MaxAge = 24 * time.Hour
	if len(cfg.AllowedOrigins) == 0 || cfg.AllowedOrigins[0] == "*" {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowedOrigins
		c.AllowCredentials = true
	}
	return c
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
