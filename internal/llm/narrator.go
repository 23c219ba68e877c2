package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alfredjeanlab/vendorwatch/internal/model"
	"github.com/alfredjeanlab/vendorwatch/internal/monitor"
)

// maxNarrativeChars bounds how much page content is sent per narrative request.
const maxNarrativeChars = 16000

const narratorSystemPrompt = `You are a vendor risk analyst. Given a vendor's current
legal/commercial content and the structured facts extracted from it, assess the
risk posture for a customer of that vendor.

Return ONLY a JSON object:
  "severity": one of "low", "medium", "high"
  "type": a short snake_case label for the dominant risk theme
  "summary": 2-4 sentences describing the risk in plain language
  "action": one concrete next step for the customer

Base the assessment strictly on the provided material.`

// RiskNarrator generates deep-mode risk narratives.
type RiskNarrator struct {
	client *Client
}

// NewRiskNarrator creates a narrator using the given client.
func NewRiskNarrator(client *Client) *RiskNarrator {
	return &RiskNarrator{client: client}
}

// Analyze produces a narrative for the vendor's current content and facts.
func (n *RiskNarrator) Analyze(ctx context.Context, vendor *model.Vendor, content string, facts *model.StructuredData) (*monitor.Narrative, error) {
	if len(content) > maxNarrativeChars {
		content = content[:maxNarrativeChars]
	}
	factsJSON, err := json.MarshalIndent(facts, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode facts: %w", err)
	}

	user := fmt.Sprintf("Vendor: %s (%s)\n\nStructured facts:\n%s\n\nCurrent content:\n\n%s",
		vendor.Name, vendor.Website, factsJSON, content)

	resp, err := n.client.Complete(ctx, []Message{
		{Role: "system", Content: narratorSystemPrompt},
		{Role: "user", Content: user},
	}, 1024)
	if err != nil {
		return nil, err
	}

	raw := ExtractJSON(resp.Content)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in model response")
	}
	var narrative monitor.Narrative
	if err := json.Unmarshal([]byte(raw), &narrative); err != nil {
		return nil, fmt.Errorf("decode narrative: %w", err)
	}
	return &narrative, nil
}
