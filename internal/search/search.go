// Package search queries an external news/web search API for vendor risk
// signals. It is optional: cycles run without it when no endpoint is
// configured.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alfredjeanlab/vendorwatch/internal/monitor"
)

const (
	maxResults      = 5
	maxResponseSize = 1 << 20 // 1 MiB
)

// Client queries a JSON search endpoint. The endpoint is expected to accept
// a "q" query parameter and return {"results": [{"title", "url", "snippet"}]}.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// New creates a search client, or nil when no endpoint is configured so
// callers can pass it straight through as a disabled collaborator.
func New(endpoint, apiKey string) *Client {
	if endpoint == "" {
		return nil
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Snippet string `json:"snippet"`
	} `json:"results"`
}

// SearchNews runs the query and returns matched sources with their snippets
// concatenated for fingerprinting.
func (c *Client) SearchNews(ctx context.Context, query string) (*monitor.SearchResult, error) {
	reqURL, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse search endpoint: %w", err)
	}
	q := reqURL.Query()
	q.Set("q", query)
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned HTTP %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := parsed.Results
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	out := &monitor.SearchResult{}
	var texts []string
	for _, r := range results {
		if r.URL == "" {
			continue
		}
		out.Sources = append(out.Sources, r.URL)
		line := strings.TrimSpace(strings.TrimSpace(r.Title) + ": " + strings.TrimSpace(r.Snippet))
		texts = append(texts, strings.TrimPrefix(line, ": "))
	}
	out.Text = strings.Join(texts, "\n")
	return out, nil
}
