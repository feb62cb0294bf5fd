package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pranchal07/heal/internal/config"
	"github.com/pranchal07/heal/internal/handler"
	"github.com/pranchal07/heal/internal/logging"
	"github.com/pranchal07/heal/internal/repository"
	"github.com/pranchal07/heal/internal/service"
	"github.com/pranchal07/heal/web"
)

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		logging.Setup("INFO")
		logging.Fatal("failed to load config", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	ctx := context.Background()
	pool, err := repository.NewPool(ctx, repository.PoolConfig{
		DSN:            cfg.Database.DSN(),
		MaxConns:       int32(cfg.Database.MaxConns),
		IdleTimeout:    cfg.Database.IdleTimeout,
		ConnectTimeout: cfg.Database.ConnectTimeout,
	})
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	defer pool.Close()

	sqlDB := repository.OpenDB(pool)
	defer sqlDB.Close()

	if err := repository.EnsureSchema(ctx, sqlDB); err != nil {
		logging.Fatal("failed to initialize schema", "error", err)
	}

	db := repository.NewDB(sqlDB)
	submissionRepo := repository.NewPgSubmissionRepository(db)
	submissionService := service.NewSubmissionService(submissionRepo)

	h := handler.New(db, cfg.AllowedOrigins(), cfg.Version)
	submissionHandler := handler.NewSubmissionHandler(submissionService)

	generalLimiter := handler.NewRateLimiter("general", cfg.RateLimit.Max, cfg.RateLimit.Window,
		"Too many requests from this IP, please try again later.", cfg.RateLimit.TrustedProxies)
	defer generalLimiter.Close()
	submitLimiter := handler.NewRateLimiter("submit", cfg.RateLimit.SubmitMax, cfg.RateLimit.Window,
		"Too many submissions, please try again later.", cfg.RateLimit.TrustedProxies)
	defer submitLimiter.Close()

	var static http.Handler
	if cfg.ServeStatic {
		static = handler.SPA(web.FS())
	}

	mux := http.NewServeMux()
	handler.Routes(mux, h, submissionHandler, submitLimiter, static)

	var root http.Handler = mux
	root = generalLimiter.Middleware(root)
	root = h.CORS(root)
	root = handler.SecurityHeaders(root)
	root = handler.Metrics(root)
	root = handler.RequestLogger(root)
	root = handler.RequestID(root)
	root = handler.Recover(root)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      root,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening",
			"addr", server.Addr,
			"environment", cfg.Environment,
			"version", cfg.Version,
			"serve_static", cfg.ServeStatic,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutting down", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("server stopped")
}
