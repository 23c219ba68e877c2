package monitor

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/alfredjeanlab/vendorwatch/internal/model"
)

const (
	maxMarkupCandidates = 3
	maxCandidates       = 4
)

// commonLegalPaths are tried on the vendor's origin when the page markup
// offers nothing better.
var commonLegalPaths = []string{"/terms", "/privacy", "/tos", "/legal"}

// candidateURLs derives the ordered extraction candidates for a vendor:
// legal-looking links from the page markup (capped), unioned with common
// legal paths on the vendor origin, deduplicated, relevance-filtered, and
// capped. When nothing survives the filter the homepage is kept as a last
// resort; the hallucination guard covers that case.
func candidateURLs(vendor *model.Vendor, page *Page) []string {
	origin := vendorOrigin(vendor)

	var candidates []string
	seen := map[string]bool{}
	add := func(u string) {
		u = strings.TrimSuffix(strings.TrimSpace(u), "/")
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		candidates = append(candidates, u)
	}

	markup := 0
	for _, link := range page.Links {
		if markup >= maxMarkupCandidates {
			break
		}
		if !legalLink(link) {
			continue
		}
		before := len(seen)
		add(link)
		if len(seen) > before {
			markup++
		}
	}

	if origin != "" {
		for _, p := range commonLegalPaths {
			add(origin + p)
		}
	}

	var relevant []string
	for _, c := range candidates {
		if !IsRelevant(vendor.RootDomain, c) {
			continue
		}
		relevant = append(relevant, c)
		if len(relevant) >= maxCandidates {
			break
		}
	}

	if len(relevant) == 0 && origin != "" {
		relevant = []string{origin}
	}
	return relevant
}

// legalLink reports whether a markup link looks like a legal document:
// its path carries a legal/commercial keyword, or it points at a PDF.
func legalLink(link string) bool {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	path := strings.ToLower(u.Path)
	if strings.HasSuffix(path, ".pdf") {
		return true
	}
	for _, kw := range allowKeywords {
		if strings.Contains(path, kw) {
			return true
		}
	}
	return false
}

func vendorOrigin(vendor *model.Vendor) string {
	u, err := url.Parse(vendor.Website)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// extractStructured runs the race-to-first-success extraction over the
// candidate URLs. The first result that survives schema normalization and
// the hallucination guard wins; the rest are never attempted. Returns nil
// data when no candidate yields usable facts.
func extractStructured(ctx context.Context, extractor Extractor, vendor *model.Vendor, page *Page, logger *slog.Logger) (*model.StructuredData, string) {
	if extractor == nil {
		return nil, ""
	}

	candidates := candidateURLs(vendor, page)
	if len(candidates) == 0 {
		logger.Info("no extraction candidates", "vendor", vendor.ID)
		return nil, ""
	}

	for _, candidate := range candidates {
		facts, err := extractor.Extract(ctx, candidate)
		if err != nil {
			logger.Warn("extraction failed", "vendor", vendor.ID, "url", candidate, "error", err)
			continue
		}
		data := normalizeFacts(facts)
		if data.IsZero() {
			continue
		}
		if LooksFabricated(data, candidate, page.Text) {
			logger.Warn("extraction rejected as implausible", "vendor", vendor.ID, "url", candidate,
				"populated_fields", data.PopulatedFields())
			continue
		}
		return data, candidate
	}
	return nil, ""
}

// normalizeFacts coerces a raw extractor map to the fixed schema. Each
// recognized key becomes a list of non-empty trimmed strings; string and
// list values are both accepted; unrecognized keys are ignored.
func normalizeFacts(facts map[string]any) *model.StructuredData {
	data := &model.StructuredData{}
	for key, raw := range facts {
		field := model.FieldByKey(strings.ToLower(strings.TrimSpace(key)))
		if field == nil {
			continue
		}
		vals := coerceFacts(raw)
		if len(vals) > 0 {
			field.Set(data, vals)
		}
	}
	return data
}

func coerceFacts(raw any) []string {
	var out []string
	appendFact := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	switch v := raw.(type) {
	case string:
		appendFact(v)
	case []string:
		for _, s := range v {
			appendFact(s)
		}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				appendFact(s)
			}
		}
	}
	return out
}
