package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"sales-dashboard/internal/auth"
	"sales-dashboard/internal/config"
	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/server"
	"sales-dashboard/internal/services"
)

const (
	version         = "1.0.0"
	dataLoadTimeout = 2 * time.Minute
	janitorInterval = time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("application stopped gracefully")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting application",
		"version", version,
		"source", cfg.Data.Source,
		"addr", cfg.Address(),
	)

	creds, err := dataset.LoadCredentials(cfg.Data.UsersFile)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	authSvc := auth.NewService(creds, cfg.Auth.SessionTTL, logger)

	ctx, cancel := context.WithTimeout(context.Background(), dataLoadTimeout)
	defer cancel()

	source, closeSource, err := services.OpenSource(ctx, cfg.Data, logger)
	if err != nil {
		return fmt.Errorf("open data source: %w", err)
	}
	dashboard := services.NewDashboard(source, services.ActivityFromFile(cfg.Data.ActivityFile, logger), logger)

	// A failed load leaves an empty dashboard up; operators can POST
	// /admin/reload once the source is fixed.
	start := time.Now()
	if err := dashboard.Load(ctx); err != nil {
		logger.Warn("serving empty dashboard", "error", err)
	} else {
		logger.Info("dashboard data loaded", "duration", time.Since(start))
	}

	bg, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	rateLimiter := middleware.NewRateLimiter(cfg.Security)
	go rateLimiter.RunJanitor(bg, janitorInterval)
	go sweepSessions(bg, authSvc, janitorInterval, logger)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, dashboard, authSvc, rateLimiter, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg.Server)
	gracefulServer.RegisterShutdownHook("background", func(context.Context) error {
		stopBackground()
		return nil
	})
	gracefulServer.RegisterShutdownHook("data source", closeSource)

	return gracefulServer.ListenAndServe()
}

func newHandler(cfg *config.Config, dashboard *services.Dashboard, authSvc *auth.Service, limiter *middleware.RateLimiter, logger *slog.Logger) http.Handler {
	srv := server.NewServer(dashboard, authSvc, cfg.Auth.SecureCookie, logger)

	chain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.SameOrigin(cfg.Security, logger),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(limiter, logger),
	)
	return chain(srv)
}

func sweepSessions(ctx context.Context, svc *auth.Service, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := svc.Sweep(); n > 0 {
				logger.Debug("expired sessions removed", "count", n)
			}
		}
	}
}
