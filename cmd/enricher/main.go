package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MathCsAI/feedback-enricher/internal/config"
	"github.com/MathCsAI/feedback-enricher/internal/enrich/gemini"
	"github.com/MathCsAI/feedback-enricher/internal/fetch"
	"github.com/MathCsAI/feedback-enricher/internal/httpapi"
	"github.com/MathCsAI/feedback-enricher/internal/pipeline"
	"github.com/MathCsAI/feedback-enricher/internal/store"
	"github.com/MathCsAI/feedback-enricher/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to optional YAML config file")
	listen := flag.String("listen", "", "listen address (overrides config)")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger = setupLogger(cfg.LogLevel)
	if *listen != "" {
		cfg.Listen = *listen
	}

	ctx := context.Background()

	enricher, err := gemini.New(ctx, gemini.Config{
		APIKey:       cfg.Gemini.APIKey,
		Model:        cfg.Gemini.Model,
		BaseURL:      cfg.Gemini.BaseURL,
		RateLimitRPS: cfg.Gemini.RateLimitRPS,
	}, logger)
	if err != nil {
		logger.Error("failed to create enrichment client", "error", err)
		os.Exit(1)
	}
	if cfg.Gemini.APIKey == "" {
		logger.Warn("GEMINI_API_KEY is not set; enrichment will fail per item")
	}

	fetcher := fetch.New(fetch.Config{
		URL:      cfg.Source.URL,
		Timeout:  cfg.Source.Timeout,
		MaxItems: cfg.Source.MaxItems,
	}, logger)

	fileStore := store.New(cfg.Store.Path, logger)

	pipe := pipeline.New(fetcher, enricher, fileStore, pipeline.Options{
		DefaultEmail:  cfg.DefaultEmail,
		DefaultSource: cfg.DefaultSource,
	}, logger)

	mux := http.NewServeMux()
	mux.Handle("/api/process-feedback", httpapi.NewHandler(pipe, logger))

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	logger.Info("starting feedback enricher",
		"version", version.Current,
		"listen", cfg.Listen,
		"source_url", cfg.Source.URL,
		"model", cfg.Gemini.Model,
		"store_path", cfg.Store.Path,
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler)
}
