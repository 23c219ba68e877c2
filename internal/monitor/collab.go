// Package monitor implements the change-detection and risk-classification
// pipeline: fingerprinting vendor content, extracting structured facts from
// legal documents, classifying changes deterministically, and gating alerts.
package monitor

import (
	"context"

	"github.com/alfredjeanlab/vendorwatch/internal/model"
)

// Page is the scraped content of a single URL.
type Page struct {
	URL   string
	Text  string
	Links []string // absolute URLs discovered in the page markup
}

// CrawlResult is the combined content of a bounded multi-page crawl.
type CrawlResult struct {
	Pages []Page
	Text  string
}

// SearchResult carries external risk signals from a news/web search.
type SearchResult struct {
	Sources []string // URLs of the matched articles
	Text    string
}

// Narrative is the output of the deep-mode narrative generator.
type Narrative struct {
	Severity string `json:"severity"`
	Type     string `json:"type"`
	Summary  string `json:"summary"`
	Action   string `json:"action"`
}

// Scraper fetches the content of a single page.
type Scraper interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

// Crawler fetches a bounded set of same-site pages to build a richer baseline.
type Crawler interface {
	CrawlSite(ctx context.Context, url string, maxPages int) (*CrawlResult, error)
}

// Searcher looks up external risk signals for a vendor.
type Searcher interface {
	SearchNews(ctx context.Context, query string) (*SearchResult, error)
}

// Extractor pulls raw structured facts from a document URL. The returned map
// is schema-free; values may be strings or lists of strings. An empty map is
// a legitimate result, not an error.
type Extractor interface {
	Extract(ctx context.Context, url string) (map[string]any, error)
}

// Narrator generates a risk narrative for deep research mode. A narrative
// with an unrecognized severity is treated as a failure by the caller.
type Narrator interface {
	Analyze(ctx context.Context, vendor *model.Vendor, content string, facts *model.StructuredData) (*Narrative, error)
}

// Notifier dispatches an alert for a risk event.
type Notifier interface {
	Send(ctx context.Context, event *model.RiskEvent) (bool, error)
}
