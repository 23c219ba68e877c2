package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alfredjeanlab/vendorwatch/internal/model"
	"github.com/alfredjeanlab/vendorwatch/internal/monitor"
)

// maxDocumentChars bounds how much page text is sent per extraction request.
const maxDocumentChars = 24000

// FactExtractor pulls structured legal/commercial facts from a document URL
// by scraping it and asking the model for a keyed JSON object.
type FactExtractor struct {
	client  *Client
	scraper monitor.Scraper
}

// NewFactExtractor creates an extractor using the given client and scraper.
func NewFactExtractor(client *Client, scraper monitor.Scraper) *FactExtractor {
	return &FactExtractor{client: client, scraper: scraper}
}

// Extract fetches the document and returns the raw fact map. An empty map
// means the model found nothing; it is not an error.
func (e *FactExtractor) Extract(ctx context.Context, url string) (map[string]any, error) {
	page, err := e.scraper.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	text := page.Text
	if len(text) > maxDocumentChars {
		text = text[:maxDocumentChars]
	}

	resp, err := e.client.Complete(ctx, []Message{
		{Role: "system", Content: extractionSystemPrompt()},
		{Role: "user", Content: "Document URL: " + url + "\n\nDocument content:\n\n" + text},
	}, 2048)
	if err != nil {
		return nil, err
	}

	raw := ExtractJSON(resp.Content)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in model response")
	}
	var facts map[string]any
	if err := json.Unmarshal([]byte(raw), &facts); err != nil {
		return nil, fmt.Errorf("decode fact map: %w", err)
	}
	return facts, nil
}

// extractionSystemPrompt lists every schema field so the model returns a
// complete keyed object.
func extractionSystemPrompt() string {
	var sb strings.Builder
	sb.WriteString("You extract legal and commercial commitments from vendor documents ")
	sb.WriteString("(terms of service, privacy policies, SLAs, pricing pages).\n\n")
	sb.WriteString("Return ONLY a JSON object with exactly these keys:\n")
	for _, field := range model.Fields {
		fmt.Fprintf(&sb, "  %q: %s, as an array of short factual statements\n", field.Key, field.Label)
	}
	sb.WriteString("\nRules:\n")
	sb.WriteString("- Every value is an array of strings. Use [] for topics the document does not address.\n")
	sb.WriteString("- State only facts present in the document. Never infer or invent commitments.\n")
	sb.WriteString("- Keep each statement under 200 characters.\n")
	return sb.String()
}
