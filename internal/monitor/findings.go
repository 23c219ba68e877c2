package monitor

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/alfredjeanlab/vendorwatch/internal/model"
)

const conciseFieldLimit = 5
const conciseFactLimit = 120

// categoryActions are the fixed per-category recommended-action sentences,
// keyed by risk category. Nothing here is generated from fact content.
var categoryActions = map[model.Category]string{
	model.CategoryLegal:        "Have legal counsel review the updated contractual terms.",
	model.CategoryDataSecurity: "Verify data handling and compliance posture with your security team.",
	model.CategoryFinancial:    "Reassess pricing and fees against the current agreement.",
	model.CategoryOperational:  "Confirm service levels and support commitments still meet requirements.",
}

const periodicReviewStep = "Re-run monitoring periodically to track further changes."

// BuildFindings turns structured facts into categorized findings. Populated
// fields yield one finding per fact; empty critical fields (liability cap,
// indemnification, data residency, compliance) yield a synthetic high-concern
// gap finding, since absence of a critical disclosure is itself a signal.
// A nil snapshot yields no findings at all: when extraction was skipped or
// rejected, gaps cannot be distinguished from missing data.
func BuildFindings(d *model.StructuredData) []model.RiskFinding {
	if d == nil {
		return nil
	}
	var findings []model.RiskFinding
	for _, f := range model.Fields {
		vals := f.Get(d)
		if len(vals) == 0 {
			if f.CriticalGap {
				findings = append(findings, model.RiskFinding{
					Category: f.Category,
					Fact:     fmt.Sprintf("%s not addressed in the reviewed documents", f.Label),
					Concern:  model.SeverityHigh,
				})
			}
			continue
		}
		concern := model.SeverityLow
		if f.CriticalGap {
			concern = model.SeverityMedium
		}
		for _, v := range vals {
			findings = append(findings, model.RiskFinding{
				Category: f.Category,
				Fact:     capitalize(v),
				Concern:  concern,
			})
		}
	}
	return findings
}

// CanonicalSummary renders every populated field as "<label>: <value>",
// blocks joined by blank lines, multi-fact values numbered.
func CanonicalSummary(d *model.StructuredData) string {
	if d == nil {
		return ""
	}
	var blocks []string
	for _, f := range model.Fields {
		vals := f.Get(d)
		if len(vals) == 0 {
			continue
		}
		if len(vals) == 1 {
			blocks = append(blocks, f.Label+": "+formalizeFact(vals[0]))
			continue
		}
		lines := make([]string, 0, len(vals)+1)
		lines = append(lines, f.Label+":")
		for i, v := range vals {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, formalizeFact(v)))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

// ConciseSummary renders the first few populated fields as a single
// pipe-joined line for compact contexts such as email subjects.
func ConciseSummary(d *model.StructuredData) string {
	if d == nil {
		return ""
	}
	var parts []string
	for _, f := range model.Fields {
		if len(parts) >= conciseFieldLimit {
			break
		}
		vals := f.Get(d)
		if len(vals) == 0 {
			continue
		}
		parts = append(parts, f.Label+": "+truncate(vals[0], conciseFactLimit))
	}
	return strings.Join(parts, " | ")
}

// BuildRecommendedAction produces the templated action text for a finding
// set: one fixed sentence per category that has findings, in canonical
// category order, closed by the generic periodic-review step. An empty
// finding list yields an empty string.
func BuildRecommendedAction(findings []model.RiskFinding) string {
	if len(findings) == 0 {
		return ""
	}
	present := map[model.Category]bool{}
	for _, f := range findings {
		present[f.Category] = true
	}

	lines := []string{"Recommended actions:"}
	for _, cat := range model.Categories {
		if present[cat] {
			lines = append(lines, "- "+categoryActions[cat])
		}
	}
	lines = append(lines, "- "+periodicReviewStep)
	return strings.Join(lines, "\n")
}

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// smallWords stay lowercase when title-casing a fact.
var smallWords = map[string]bool{
	"a": true, "an": true, "and": true, "at": true, "by": true, "for": true,
	"in": true, "of": true, "on": true, "or": true, "per": true, "the": true,
	"to": true, "with": true,
}

// formalizeFact title-cases a fact and wraps bare four-digit years in
// parentheses for the canonical summary.
func formalizeFact(fact string) string {
	words := strings.Fields(fact)
	for i, w := range words {
		if i > 0 && smallWords[strings.ToLower(w)] {
			words[i] = strings.ToLower(w)
			continue
		}
		words[i] = capitalize(w)
	}
	s := strings.Join(words, " ")
	return yearPattern.ReplaceAllString(s, "($0)")
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return strings.TrimSpace(string(r[:limit])) + "..."
}
