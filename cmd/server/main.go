package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trendscope/internal/auth"
	"trendscope/internal/config"
	"trendscope/internal/llm"
	"trendscope/internal/monitoring"
	"trendscope/internal/pipeline"
	"trendscope/internal/scheduler"
	"trendscope/internal/server"
	"trendscope/internal/server/handlers"
	"trendscope/internal/storage"
	"trendscope/internal/youtube"
)

func main() {
	logger := log.New(os.Stderr, "", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := storage.Connect(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := storage.EnsureSchema(ctx, pool); err != nil {
		logger.Fatalf("Failed to ensure database schema: %v", err)
	}
	logger.Println("Database ready")

	chartCache, err := storage.NewChartCache(cfg.YouTube.SnapshotFile, cfg.YouTube.SnapshotMaxAgeDuration())
	if err != nil {
		logger.Fatalf("Failed to initialize trending snapshot: %v", err)
	}

	ytClient, err := youtube.NewClient(ctx, &cfg.YouTube, chartCache, logger)
	if err != nil {
		logger.Fatalf("Failed to create YouTube client: %v", err)
	}

	llmClient, err := llm.NewClient(ctx, &cfg.AI)
	if err != nil {
		logger.Fatalf("Failed to create LLM client: %v", err)
	}

	userStore := storage.NewUserStore(pool)
	analysisStore := storage.NewAnalysisStore(pool)

	trendPipeline := pipeline.New(
		pipeline.NewExtractor(llmClient, logger),
		ytClient,
		pipeline.NewRanker(logger),
		pipeline.NewSynthesizer(llmClient, logger),
		analysisStore,
		cfg.YouTube.MaxResults,
		logger,
	)

	monitor := monitoring.NewMonitor(logger)
	chartScheduler := scheduler.New(
		scheduler.NewChartJob(ytClient, cfg.YouTube.MaxResults),
		cfg.YouTube.ChartSchedule,
		monitor,
		logger,
	)
	if err := chartScheduler.Start(ctx); err != nil {
		logger.Fatalf("Failed to start chart scheduler: %v", err)
	}
	defer chartScheduler.Stop()

	tokens := auth.NewTokenManager(&cfg.Auth)
	authmw := auth.NewMiddleware(tokens, userStore, logger)

	srv := server.New(
		&cfg.Server,
		pool,
		monitor,
		authmw,
		handlers.NewAuthHandler(userStore, tokens, logger),
		handlers.NewTrendingHandler(trendPipeline, analysisStore, logger),
		logger,
	)

	go func() {
		logger.Printf("Server listening on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Println("Shutdown signal received, draining requests...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("Forced shutdown: %v", err)
	}
	logger.Println("Server stopped cleanly")
}
