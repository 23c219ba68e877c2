package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/alfredjeanlab/vendorwatch/internal/monitor"
)

// SiteScraper fetches and converts vendor pages. It implements both the
// single-page scraper and the bounded same-site crawler used by the
// monitoring cycle.
type SiteScraper struct {
	fetcher   *Fetcher
	converter *Converter
	logger    *slog.Logger
}

// NewSiteScraper creates a scraper with the given fetch timeout and user agent.
func NewSiteScraper(timeout time.Duration, userAgent string, logger *slog.Logger) *SiteScraper {
	if logger == nil {
		logger = slog.Default()
	}
	return &SiteScraper{
		fetcher:   NewFetcher(timeout, userAgent),
		converter: NewConverter(),
		logger:    logger,
	}
}

// Fetch retrieves a single page and converts it to markdown text.
func (s *SiteScraper) Fetch(ctx context.Context, pageURL string) (*monitor.Page, error) {
	result, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	if ct := result.ContentType; ct != "" && !isTextual(ct) {
		return nil, fmt.Errorf("unsupported content type %q", ct)
	}

	text, links, err := s.converter.Convert(result.Body, pageURL)
	if err != nil {
		return nil, err
	}
	return &monitor.Page{URL: pageURL, Text: text, Links: links}, nil
}

// CrawlSite fetches up to maxPages pages reachable from startURL, staying on
// the start page's root domain. Per-page failures are logged and skipped; the
// crawl only fails when the start page itself cannot be fetched.
func (s *SiteScraper) CrawlSite(ctx context.Context, startURL string, maxPages int) (*monitor.CrawlResult, error) {
	if maxPages < 1 {
		maxPages = 1
	}
	start, err := url.Parse(startURL)
	if err != nil {
		return nil, fmt.Errorf("parse start URL: %w", err)
	}
	root := monitor.RootDomain(start.Hostname())

	first, err := s.Fetch(ctx, startURL)
	if err != nil {
		return nil, err
	}

	result := &monitor.CrawlResult{Pages: []monitor.Page{*first}}
	visited := map[string]bool{normalizeCrawlURL(startURL): true}
	queue := sameRootLinks(first.Links, root, visited)

	for len(queue) > 0 && len(result.Pages) < maxPages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next := queue[0]
		queue = queue[1:]

		page, err := s.Fetch(ctx, next)
		if err != nil {
			s.logger.Debug("crawl page skipped", "url", next, "error", err)
			continue
		}
		result.Pages = append(result.Pages, *page)
		queue = append(queue, sameRootLinks(page.Links, root, visited)...)
	}

	texts := make([]string, 0, len(result.Pages))
	for _, page := range result.Pages {
		texts = append(texts, page.Text)
	}
	result.Text = strings.Join(texts, "\n\n")
	return result, nil
}

// sameRootLinks filters links to unvisited pages on the given root domain,
// marking each returned link as visited.
func sameRootLinks(links []string, root string, visited map[string]bool) []string {
	var out []string
	for _, link := range links {
		parsed, err := url.Parse(link)
		if err != nil {
			continue
		}
		if monitor.RootDomain(parsed.Hostname()) != root {
			continue
		}
		key := normalizeCrawlURL(link)
		if visited[key] {
			continue
		}
		visited[key] = true
		out = append(out, link)
	}
	return out
}

func normalizeCrawlURL(link string) string {
	return strings.TrimSuffix(link, "/")
}

func isTextual(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") ||
		strings.Contains(ct, "text/plain") ||
		strings.Contains(ct, "application/xhtml")
}
