package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"faceattend/internal/account"
	"faceattend/internal/auth"
	"faceattend/internal/config"
	"faceattend/internal/directory"
	"faceattend/internal/handler"
	"faceattend/internal/httpmiddleware"
	"faceattend/internal/ledger"
	"faceattend/internal/logger"
	"faceattend/internal/notify"
	"faceattend/internal/store"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.IsProduction())
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	if err := runHTTP(cfg, log); err != nil {
		log.Fatal("http server failed", zap.Error(err))
	}
}

func runHTTP(cfg config.App, log *zap.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := store.Connect(ctx, cfg.DatabaseURL, func(err error) {
		log.Warn("db not reachable, retrying in 5s", zap.Error(err))
	})
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.Migrate(ctx); err != nil {
		return err
	}

	redisClient := store.NewRedis(cfg.RedisAddr)

	var queue notify.Queue
	if cfg.QueueBackend == "memory" {
		queue = notify.NewInMemory(64)
	} else {
		queue = notify.NewRedisQueue(redisClient.Client, "faceattend:notifications")
	}

	accounts := account.NewService(account.NewRepository(db.Client), cfg.Roles)
	employees := directory.NewService(directory.NewRepository(db.Client))
	attendance := ledger.NewService(ledger.NewRepository(db.Client), employees)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger(log, "/healthz", "/metrics"))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := redisClient.Healthy(c.Request.Context())
		dbHealthy := db.Client.PingContext(c.Request.Context()) == nil
		status := http.StatusOK
		if !redisHealthy || !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
	})

	gate := auth.RequireAccount(tokens, accounts)
	h := handler.New(accounts, employees, attendance, tokens, queue, log, cfg.IsProduction())
	h.Routes(r, gate)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("starting server", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	// Give outstanding requests 10 seconds to complete.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("server forced shutdown", zap.Error(err))
	}

	log.Info("server exited")
	return nil
}

// CORS middleware for browser requests.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware.
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Only add HSTS in production
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
