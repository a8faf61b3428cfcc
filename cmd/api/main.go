package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"goalplan-backend/internal/ai"
	"goalplan-backend/internal/analytics"
	"goalplan-backend/internal/config"
	"goalplan-backend/internal/db"
	"goalplan-backend/internal/logging"
	"goalplan-backend/internal/plan"
	"goalplan-backend/internal/server"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, !cfg.Production())
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("relay stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting generate-plan relay",
		zap.String("model", cfg.GeminiModel),
		zap.Bool("api_key_present", cfg.GeminiAPIKey != ""),
		zap.String("api_key_source", cfg.KeySource),
		zap.Bool("adc", cfg.HasADC),
		zap.Duration("plan_timeout", cfg.PlanTimeout))

	planner := plan.NewPlanner(newProvider(ctx, cfg, logger),
		plan.WithTimeout(cfg.PlanTimeout),
		plan.WithLogger(logger.Named("plan")))

	var sink analytics.Execer
	if cfg.DBEnabled() {
		database, err := connectDB(ctx, cfg)
		if err != nil {
			// analytics is optional; the relay still serves plans
			logger.Warn("analytics disabled: failed to connect DB", zap.Error(err))
		} else {
			defer database.Close()
			sink = database
			logger.Info("connected to PostgreSQL for analytics")
		}
	}

	handler := server.NewRouter(plan.NewHandler(planner, sink, logger.Named("relay")), logger.Named("http"), cfg.CORSOrigins)
	srv := server.New(cfg.Addr(), handler, cfg.PlanTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("generate-plan relay listening", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !server.IsServerClosed(err) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down relay")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newProvider returns nil when no credentials are available so every
// request is served the mock plan.
func newProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) ai.Provider {
	p, err := ai.NewGeminiProvider(ctx, ai.GeminiConfig{
		APIKey:   cfg.GeminiAPIKey,
		Model:    cfg.GeminiModel,
		Project:  cfg.GCPProject,
		Location: cfg.GCPLocation,
	})
	if errors.Is(err, ai.ErrNoCredentials) {
		logger.Warn("no Gemini credentials found, mock plans only")
		return nil
	}
	if err != nil {
		logger.Warn("Gemini client init failed, mock plans only", zap.Error(err))
		return nil
	}
	logger.Info("Gemini client initialized", zap.String("model", p.Model()))
	return p
}

func connectDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.Connect(ctx, cfg.ConnString())
}
