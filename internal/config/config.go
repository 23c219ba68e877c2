package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	DatabaseURL string // VENDORWATCH_DATABASE_URL (required)
	HTTPAddr    string // VENDORWATCH_HTTP_ADDR (default ":8080")
	NATSURL     string // VENDORWATCH_NATS_URL (optional, empty = no events)
	AuthToken   string // VENDORWATCH_AUTH_TOKEN (optional, empty = auth disabled)

	// Scrape settings
	ScrapeTimeout time.Duration // VENDORWATCH_SCRAPE_TIMEOUT (default 30s)
	UserAgent     string        // VENDORWATCH_USER_AGENT
	CrawlMaxPages int           // VENDORWATCH_CRAWL_MAX_PAGES (default 5)

	// LLM settings (extraction + deep-mode narrative)
	LLMProvider string // VENDORWATCH_LLM_PROVIDER (default "anthropic")
	LLMModel    string // VENDORWATCH_LLM_MODEL (default "claude-sonnet-4-20250514")
	LLMBaseURL  string // VENDORWATCH_LLM_BASE_URL (optional, provider default)

	// News search settings
	SearchURL    string // VENDORWATCH_SEARCH_URL (optional, empty = search disabled)
	SearchAPIKey string // VENDORWATCH_SEARCH_API_KEY

	// Alerting
	AlertSeverities []string // VENDORWATCH_ALERT_SEVERITIES (default "medium,high")
	AlertWebhookURL string   // VENDORWATCH_ALERT_WEBHOOK_URL (optional, empty = alerts logged only)
	ResearchMode    string   // VENDORWATCH_RESEARCH_MODE ("basic" or "deep", default "basic")

	// Alert hook: shell command run for each alert (requires NATS)
	AlertHook        string        // VENDORWATCH_ALERT_HOOK (optional)
	AlertHookTimeout time.Duration // VENDORWATCH_ALERT_HOOK_TIMEOUT (default 30s)

	// Archive settings
	ArchiveInterval   time.Duration // VENDORWATCH_ARCHIVE_INTERVAL (default 0 = disabled)
	ArchiveS3Bucket   string        // VENDORWATCH_ARCHIVE_S3_BUCKET (enables S3 when set)
	ArchiveS3Endpoint string        // VENDORWATCH_ARCHIVE_S3_ENDPOINT (custom endpoint for MinIO)
	ArchiveS3Region   string        // VENDORWATCH_ARCHIVE_S3_REGION (default "us-east-1")
	ArchiveS3Key      string        // VENDORWATCH_ARCHIVE_S3_KEY (default "vendorwatch/archive.jsonl")
	ArchiveGitRepo    string        // VENDORWATCH_ARCHIVE_GIT_REPO (enables git when set)
	ArchiveGitFile    string        // VENDORWATCH_ARCHIVE_GIT_FILE (default "archive.jsonl")
	ArchiveGitBranch  string        // VENDORWATCH_ARCHIVE_GIT_BRANCH (default "main")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:       os.Getenv("VENDORWATCH_DATABASE_URL"),
		HTTPAddr:          envOrDefault("VENDORWATCH_HTTP_ADDR", ":8080"),
		NATSURL:           os.Getenv("VENDORWATCH_NATS_URL"),
		AuthToken:         os.Getenv("VENDORWATCH_AUTH_TOKEN"),
		UserAgent:         envOrDefault("VENDORWATCH_USER_AGENT", "vendorwatch/1.0"),
		LLMProvider:       envOrDefault("VENDORWATCH_LLM_PROVIDER", "anthropic"),
		LLMModel:          envOrDefault("VENDORWATCH_LLM_MODEL", "claude-sonnet-4-20250514"),
		LLMBaseURL:        os.Getenv("VENDORWATCH_LLM_BASE_URL"),
		SearchURL:         os.Getenv("VENDORWATCH_SEARCH_URL"),
		SearchAPIKey:      os.Getenv("VENDORWATCH_SEARCH_API_KEY"),
		AlertWebhookURL:   os.Getenv("VENDORWATCH_ALERT_WEBHOOK_URL"),
		ResearchMode:      envOrDefault("VENDORWATCH_RESEARCH_MODE", "basic"),
		ArchiveS3Bucket:   os.Getenv("VENDORWATCH_ARCHIVE_S3_BUCKET"),
		ArchiveS3Endpoint: os.Getenv("VENDORWATCH_ARCHIVE_S3_ENDPOINT"),
		ArchiveS3Region:   envOrDefault("VENDORWATCH_ARCHIVE_S3_REGION", "us-east-1"),
		ArchiveS3Key:      envOrDefault("VENDORWATCH_ARCHIVE_S3_KEY", "vendorwatch/archive.jsonl"),
		ArchiveGitRepo:    os.Getenv("VENDORWATCH_ARCHIVE_GIT_REPO"),
		ArchiveGitFile:    envOrDefault("VENDORWATCH_ARCHIVE_GIT_FILE", "archive.jsonl"),
		ArchiveGitBranch:  envOrDefault("VENDORWATCH_ARCHIVE_GIT_BRANCH", "main"),
		AlertHook:         os.Getenv("VENDORWATCH_ALERT_HOOK"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("VENDORWATCH_DATABASE_URL is required")
	}

	var err error
	if c.ScrapeTimeout, err = envDuration("VENDORWATCH_SCRAPE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if c.ArchiveInterval, err = envDuration("VENDORWATCH_ARCHIVE_INTERVAL", 0); err != nil {
		return nil, err
	}
	if c.AlertHookTimeout, err = envDuration("VENDORWATCH_ALERT_HOOK_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	c.CrawlMaxPages = 5
	if v := os.Getenv("VENDORWATCH_CRAWL_MAX_PAGES"); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &c.CrawlMaxPages); err != nil {
			return nil, fmt.Errorf("VENDORWATCH_CRAWL_MAX_PAGES: %w", err)
		}
	}

	for _, s := range strings.Split(envOrDefault("VENDORWATCH_ALERT_SEVERITIES", "medium,high"), ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if s != "low" && s != "medium" && s != "high" {
			return nil, fmt.Errorf("VENDORWATCH_ALERT_SEVERITIES: unknown severity %q", s)
		}
		c.AlertSeverities = append(c.AlertSeverities, s)
	}

	if c.ResearchMode != "basic" && c.ResearchMode != "deep" {
		return nil, fmt.Errorf("VENDORWATCH_RESEARCH_MODE must be %q or %q", "basic", "deep")
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
