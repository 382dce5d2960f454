// cmd/resolver/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"finquery/internal/common/config"
	"finquery/internal/common/database"
	"finquery/internal/common/logger"
	"finquery/internal/common/observability"
	"finquery/internal/common/session"
	"finquery/internal/llm"
	"finquery/internal/pipeline/generator"
	"finquery/internal/pipeline/router"
	"finquery/internal/pipeline/templates"
	"finquery/internal/pipeline/temporal"
	"finquery/internal/pipeline/validator"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting resolver...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log = logger.NewZapAdapter(zapLog)

	obs := observability.New("resolver")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Postgres with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return pg.Ping(pingCtx)
	}, 10, 2*time.Second, zapLog, "Postgres initialization")
	if err != nil {
		zapLog.Fatal("postgres unavailable", zap.Error(err))
	}
	defer pg.Close()

	// --- Init Redis session store with retry ---
	conversationTTL := time.Duration(cfg.Pipeline.ConversationTTL) * time.Second
	store := session.NewStore(cfg.Database.Redis, conversationTTL)
	err = retryWithBackoff(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return store.Ping(pingCtx)
	}, 10, 2*time.Second, zapLog, "Redis initialization")
	if err != nil {
		zapLog.Fatal("redis unavailable", zap.Error(err))
	}
	defer store.Close()

	executor := database.NewSQLExecutor(pg.GetDB())

	rateTTL := time.Duration(cfg.Pipeline.ExchangeRateTTL) * time.Second
	checks := validator.New(cfg.Limits, validator.NewRateCache(executor, rateTTL, log), log)

	resolver := router.NewResolver(
		templates.NewCatalog(log),
		temporal.NewProvider(executor, log),
		generator.NewGenerator(llm.NewClient(cfg.LLM, log), cfg.LLM, log),
		checks,
		obs,
		log,
	)

	server := newServer(resolver, checks, executor, store, cfg, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/resolve", server.handleResolve)
	mux.HandleFunc("/health", server.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/pprof/", http.DefaultServeMux)

	httpServer := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: mux,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("Resolver stopped")
}
