package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alfredjeanlab/vendorwatch/internal/archive"
	"github.com/alfredjeanlab/vendorwatch/internal/config"
	"github.com/alfredjeanlab/vendorwatch/internal/events"
	"github.com/alfredjeanlab/vendorwatch/internal/hooks"
	"github.com/alfredjeanlab/vendorwatch/internal/llm"
	"github.com/alfredjeanlab/vendorwatch/internal/model"
	"github.com/alfredjeanlab/vendorwatch/internal/monitor"
	"github.com/alfredjeanlab/vendorwatch/internal/notify"
	"github.com/alfredjeanlab/vendorwatch/internal/scrape"
	"github.com/alfredjeanlab/vendorwatch/internal/search"
	"github.com/alfredjeanlab/vendorwatch/internal/server"
	"github.com/alfredjeanlab/vendorwatch/internal/store/postgres"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the vendorwatch server",
	// Override PersistentPreRunE so we don't build an API client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}

		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				store.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (VENDORWATCH_NATS_URL not set)")
		}

		// Scraper doubles as the crawler for first-cycle baselines.
		scraper := scrape.NewSiteScraper(cfg.ScrapeTimeout, cfg.UserAgent, logger)

		deps := monitor.Deps{
			Store:     store,
			Scraper:   scraper,
			Crawler:   scraper,
			Publisher: publisher,
			Logger:    logger,
		}

		llmClient, err := llm.NewClient(cfg.LLMProvider, cfg.LLMModel, cfg.LLMBaseURL, llm.WithLogger(logger))
		if err != nil {
			logger.Warn("LLM disabled", "error", err)
		} else {
			deps.Extractor = llm.NewFactExtractor(llmClient, scraper)
			deps.Narrator = llm.NewRiskNarrator(llmClient)
			logger.Info("LLM enabled", "provider", cfg.LLMProvider, "model", cfg.LLMModel)
		}

		// Optional collaborators return typed nils when unconfigured; assign
		// to the interface fields only when present.
		if s := search.New(cfg.SearchURL, cfg.SearchAPIKey); s != nil {
			deps.Searcher = s
			logger.Info("news search enabled", "url", cfg.SearchURL)
		}
		if n := notify.NewWebhook(cfg.AlertWebhookURL); n != nil {
			deps.Notifier = n
			logger.Info("alert webhook enabled", "url", cfg.AlertWebhookURL)
		}

		orchestrator := monitor.New(deps)

		severities := make([]model.Severity, 0, len(cfg.AlertSeverities))
		for _, s := range cfg.AlertSeverities {
			severities = append(severities, model.Severity(s))
		}
		vwServer := server.NewVendorwatchServer(store, publisher, orchestrator, server.Settings{
			AlertSeverities: severities,
			ResearchMode:    cfg.ResearchMode,
			CrawlMaxPages:   cfg.CrawlMaxPages,
		}, logger)

		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: vwServer.NewHTTPHandler(cfg.AuthToken),
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Start the archive scheduler if any destinations are configured.
		var scheduler *archive.Scheduler
		if cfg.ArchiveInterval > 0 {
			var dests []archive.Destination

			if cfg.ArchiveS3Bucket != "" {
				s3Dest, err := archive.NewS3Destination(
					context.Background(),
					cfg.ArchiveS3Bucket,
					cfg.ArchiveS3Key,
					cfg.ArchiveS3Region,
					cfg.ArchiveS3Endpoint,
				)
				if err != nil {
					logger.Error("failed to create S3 archive destination", "err", err)
				} else {
					dests = append(dests, s3Dest)
					logger.Info("archive S3 destination enabled", "bucket", cfg.ArchiveS3Bucket, "key", cfg.ArchiveS3Key)
				}
			}

			if cfg.ArchiveGitRepo != "" {
				gitDest := archive.NewGitDestination(cfg.ArchiveGitRepo, cfg.ArchiveGitFile, cfg.ArchiveGitBranch)
				dests = append(dests, gitDest)
				logger.Info("archive git destination enabled", "repo", cfg.ArchiveGitRepo, "file", cfg.ArchiveGitFile)
			}

			if len(dests) > 0 {
				scheduler = archive.NewScheduler(store, dests, cfg.ArchiveInterval, logger)
				scheduler.Start()
				logger.Info("archive scheduler started", "interval", cfg.ArchiveInterval)
			}
		}

		// Start the alert hook subscriber if configured; it needs NATS.
		var hooksCancel context.CancelFunc
		if cfg.AlertHook != "" {
			if cfg.NATSURL == "" {
				logger.Warn("alert hook configured but VENDORWATCH_NATS_URL is not set; hook disabled")
			} else if hooksSub, err := events.NewNATSSubscriber(cfg.NATSURL); err != nil {
				logger.Error("failed to create alert hook subscriber", "err", err)
			} else {
				handler := hooks.NewHandler(cfg.AlertHook, cfg.AlertHookTimeout, logger)
				var hooksCtx context.Context
				hooksCtx, hooksCancel = context.WithCancel(context.Background())
				go func() {
					if err := handler.StartSubscriber(hooksCtx, hooksSub); err != nil {
						logger.Error("alert hook subscriber error", "err", err)
					}
					hooksSub.Close()
				}()
			}
		}

		logger.Info("vendorwatch server started", "http_addr", cfg.HTTPAddr)

		// Wait for SIGINT or SIGTERM.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		if hooksCancel != nil {
			hooksCancel()
			logger.Info("alert hook subscriber stopped")
		}

		if scheduler != nil {
			scheduler.Stop()
			logger.Info("archive scheduler stopped")
		}

		if orchestrator.Running() {
			orchestrator.RequestCancellation()
			logger.Info("running cycle asked to cancel")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := store.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
