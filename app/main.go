package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YosoyAryan/it-financial-dashboard/app/api"
	"github.com/YosoyAryan/it-financial-dashboard/app/cfg"
	"github.com/YosoyAryan/it-financial-dashboard/app/database"
	"github.com/YosoyAryan/it-financial-dashboard/app/exchange"
	"github.com/YosoyAryan/it-financial-dashboard/app/news"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	setupLogger(appCfg.Debug)

	slog.Info("Starting IT Financial Dashboard", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	sourceConfigs, err := news.LoadSources(appCfg.SourcesFile)
	if err != nil {
		slog.Error("Failed to load news sources", "path", appCfg.SourcesFile, "error", err)
		os.Exit(1)
	}
	for _, src := range sourceConfigs {
		slog.Debug("News source configured", "source", src.Name, "kind", src.Kind, "endpoint", src.Endpoint, "item_cap", src.ItemCap)
	}

	classifier := news.NewVaderClassifier()
	classifier.Ensure()

	httpClient := &http.Client{Timeout: appCfg.GetHTTPTimeout()}
	fetcher := news.NewFetcher(httpClient, appCfg.UserAgent, appCfg.GetHTTPTimeout())
	extractor := news.NewArticleSummarizer(fetcher, news.NewContentExtractor(), news.NewSummarizer(appCfg.SummarySentences))
	aggregator := news.NewAggregator(news.BuildSources(sourceConfigs, fetcher), extractor, classifier)

	rateClient := exchange.NewClient(httpClient, appCfg.ExchangeRateURL, appCfg.UserAgent, appCfg.GetHTTPTimeout())
	board := exchange.NewBoard(rateClient, appCfg.ForexWorkers)

	alertRepo := database.NewAlertRepository(db)

	apiHandler := api.NewHandler(aggregator, news.NewGenerator(), rateClient, board, exchange.DefaultPairs(), alertRepo)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	// Aggregation is sequential, so a news request may take several fetch timeouts.
	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port, "sources", len(sourceConfigs))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("Shutdown complete")
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}
