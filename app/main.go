package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feedwatch/app/access"
	"feedwatch/app/api"
	"feedwatch/app/batch"
	"feedwatch/app/categorizer"
	"feedwatch/app/cfg"
	"feedwatch/app/company"
	"feedwatch/app/extractor"
	"feedwatch/app/fetcher"
	"feedwatch/app/structure"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	if appCfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	log.Printf("Starting Feedwatch %s...", appCfg.Version)

	// Watched feeds
	sources, err := batch.LoadSources(appCfg.FeedsFile)
	if err != nil {
		log.Fatal("Failed to load feed sources:", err)
	}
	log.Printf("Loaded %d watched feeds from %s", len(sources), appCfg.FeedsFile)

	// Company scraping catalog
	registry, err := company.LoadRegistry(appCfg.CompaniesFile)
	if err != nil {
		log.Fatal("Failed to load company catalog:", err)
	}
	log.Printf("Loaded %d company configurations from %s", registry.Len(), appCfg.CompaniesFile)

	// Category keyword rules
	rules := categorizer.DefaultRules()
	if appCfg.KeywordsFile != "" {
		rules, err = categorizer.LoadRules(appCfg.KeywordsFile)
		if err != nil {
			log.Fatal("Failed to load keyword rules:", err)
		}
		log.Printf("Loaded %d category rules from %s", len(rules), appCfg.KeywordsFile)
	}
	newsCategorizer := categorizer.New(rules)

	// Core components
	client := fetcher.NewClient(fetcher.Options{
		Timeout:    time.Duration(appCfg.FetchTimeout) * time.Second,
		UserAgent:  appCfg.UserAgent,
		MaxRetries: appCfg.FetchMaxRetries,
	})
	structureValidator := structure.NewValidator(client)
	articleExtractor := extractor.NewExtractor(client, time.Duration(appCfg.FetchTimeout)*time.Second)
	accessChecker := access.NewChecker(client, nil)
	runner := batch.NewRunner(client, newsCategorizer, sources)

	// Daily batch scheduler
	scheduler, err := batch.NewScheduler(runner, appCfg.BatchHour, appCfg.BatchMinute)
	if err != nil {
		log.Fatal("Invalid batch schedule:", err)
	}
	scheduler.Start(false)
	defer scheduler.Stop()
	log.Printf("Batch scheduler started (daily at %02d:%02d %s)", appCfg.BatchHour, appCfg.BatchMinute, appCfg.Timezone)

	// HTTP server
	apiHandler := api.NewHandler(scheduler, registry, structureValidator, articleExtractor, accessChecker, len(sources))
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on port %s", appCfg.Port)
		log.Printf("  Health check:  http://localhost:%s/health", appCfg.Port)
		log.Printf("  Statistics:    http://localhost:%s/stats", appCfg.Port)
		if appCfg.APIAccessKey != "" {
			log.Printf("  Trigger run:   http://localhost:%s/api/run (POST, requires API key)", appCfg.Port)
			log.Printf("  Structure:     http://localhost:%s/api/structure/<company> (requires API key)", appCfg.Port)
		}

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Println("Feedwatch started successfully!")

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	case err := <-serverErrChan:
		log.Printf("Server error: %v", err)
	}

	log.Println("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server stopped")
	}

	// Scheduler is stopped via defer
	log.Println("Feedwatch shutdown complete")
}
