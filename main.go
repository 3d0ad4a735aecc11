package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/xiaot623/gogo/threadreview/internal/adapter/llm"
	"github.com/xiaot623/gogo/threadreview/internal/config"
	"github.com/xiaot623/gogo/threadreview/internal/logger"
	"github.com/xiaot623/gogo/threadreview/internal/repository"
	"github.com/xiaot623/gogo/threadreview/internal/service"
	"github.com/xiaot623/gogo/threadreview/internal/summarizer"
	handler "github.com/xiaot623/gogo/threadreview/internal/transport/http"
	"github.com/xiaot623/gogo/threadreview/policy"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	zl.Info("starting thread review service",
		zap.String("host", cfg.Host),
		zap.Int("http_port", cfg.HTTPPort),
		zap.String("database", cfg.DatabasePath),
		zap.String("ai_provider", cfg.AI.Provider),
	)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabasePath, zl)
	if err != nil {
		zl.Fatal("failed to initialize store", zap.Error(err))
	}
	defer db.Close()

	// Initialize summarization strategies
	var external *summarizer.ExternalSummarizer
	if client := llm.NewClientFromConfig(cfg.AI, zl); client != nil {
		external = summarizer.NewExternalSummarizer(client, summarizer.ExternalOptions{
			Temperature: cfg.AI.Temperature,
			MaxTokens:   cfg.AI.MaxTokens,
			Timeout:     cfg.AI.Timeout(),
		}, zl)
	}
	selector := summarizer.NewSelector(external, summarizer.NewRuleSummarizer(), zl)

	// Initialize policy engine
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		zl.Fatal("failed to initialize policy engine", zap.Error(err))
	}

	// Initialize service
	svc := service.New(db, selector, policyEngine, zl)
	go svc.RunJobRetentionMonitor(ctx, time.Minute)

	server := handler.NewServer(svc, cfg, zl)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.HTTPPort)
		if err := server.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("failed to start server", zap.Error(err))
		}
	}()

	zl.Info("API started", zap.String("nlp_method", string(selector.Method())))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down")
	stop()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Warn("failed to shutdown server gracefully", zap.Error(err))
	}
	if err := svc.WaitForJobs(shutdownCtx); err != nil {
		zl.Warn("summarize jobs still running at shutdown", zap.Error(err))
	}

	zl.Info("stopped")
}
