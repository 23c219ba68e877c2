package monitor

import (
	"strings"

	"github.com/alfredjeanlab/vendorwatch/internal/model"
)

// RuleResult is one deterministic classification produced by comparing two
// structured snapshots.
type RuleResult struct {
	Type     string
	Category model.Category
	Severity model.Severity
	Summary  string
	Action   string
}

// rule compares one or more schema fields between snapshots. Rules are
// evaluated in a fixed priority order and the first firing rule supplies
// the cycle's headline classification, so the order below is load-bearing.
type rule struct {
	typ      string
	fields   []string
	category model.Category
	severity func(prev, cur []string) model.Severity
	summary  string
	action   string
}

func fixedSeverity(s model.Severity) func(prev, cur []string) model.Severity {
	return func(_, _ []string) model.Severity { return s }
}

var rules = []rule{
	{
		typ:      "pricing_change",
		fields:   []string{"pricing", "fees"},
		category: model.CategoryFinancial,
		severity: fixedSeverity(model.SeverityMedium),
		summary:  "Pricing or fee terms changed.",
		action:   "Review the updated pricing against your current contract and budget.",
	},
	{
		typ:      "liability_change",
		fields:   []string{"liability_cap"},
		category: model.CategoryLegal,
		severity: fixedSeverity(model.SeverityMedium),
		summary:  "Liability terms changed.",
		action:   "Have legal counsel review the updated liability provisions.",
	},
	{
		typ:      "termination_change",
		fields:   []string{"termination"},
		category: model.CategoryLegal,
		severity: fixedSeverity(model.SeverityMedium),
		summary:  "Termination terms changed.",
		action:   "Review notice periods and exit obligations under the new terms.",
	},
	{
		typ:      "indemnification_change",
		fields:   []string{"indemnification"},
		category: model.CategoryLegal,
		severity: fixedSeverity(model.SeverityMedium),
		summary:  "Indemnification terms changed.",
		action:   "Have legal counsel assess the shifted indemnification obligations.",
	},
	{
		typ:      "data_residency_change",
		fields:   []string{"data_residency"},
		category: model.CategoryDataSecurity,
		severity: fixedSeverity(model.SeverityHigh),
		summary:  "Data residency commitments changed.",
		action:   "Verify the new storage locations satisfy your regulatory requirements.",
	},
	{
		typ:      "compliance_change",
		fields:   []string{"compliance"},
		category: model.CategoryDataSecurity,
		// A certification disappearing outright is worse than it changing.
		severity: func(prev, cur []string) model.Severity {
			if len(prev) > 0 && len(cur) == 0 {
				return model.SeverityHigh
			}
			return model.SeverityMedium
		},
		summary: "Compliance references changed.",
		action:  "Confirm the vendor's current certifications with your security team.",
	},
	{
		typ:      "data_retention_change",
		fields:   []string{"data_retention"},
		category: model.CategoryDataSecurity,
		severity: fixedSeverity(model.SeverityMedium),
		summary:  "Data retention terms changed.",
		action:   "Check the new retention windows against your data lifecycle policies.",
	},
	{
		typ:      "sla_change",
		fields:   []string{"sla_uptime"},
		category: model.CategoryOperational,
		severity: fixedSeverity(model.SeverityMedium),
		summary:  "SLA or uptime commitments changed.",
		action:   "Compare the new service levels with your availability requirements.",
	},
	{
		typ:      "support_change",
		fields:   []string{"support_response"},
		category: model.CategoryOperational,
		severity: fixedSeverity(model.SeverityLow),
		summary:  "Support response commitments changed.",
		action:   "Confirm the support tiers still match your operational needs.",
	},
}

// Classify compares two structured snapshots field by field and returns the
// firing rules in priority order. It is total: nil inputs are treated as
// empty snapshots, and identical inputs yield an empty slice. The caller
// supplies a generic fallback when nothing fires.
func Classify(prev, cur *model.StructuredData) []RuleResult {
	var results []RuleResult
	for _, r := range rules {
		var prevVals, curVals []string
		changed := false
		for _, key := range r.fields {
			f := model.FieldByKey(key)
			p := fieldValues(prev, f)
			c := fieldValues(cur, f)
			if normalizeValue(p) != normalizeValue(c) {
				changed = true
				prevVals = p
				curVals = c
			}
		}
		if !changed {
			continue
		}
		results = append(results, RuleResult{
			Type:     r.typ,
			Category: r.category,
			Severity: r.severity(prevVals, curVals),
			Summary:  r.summary,
			Action:   r.action,
		})
	}
	return results
}

func fieldValues(d *model.StructuredData, f *model.Field) []string {
	if d == nil || f == nil {
		return nil
	}
	return f.Get(d)
}

// normalizeValue canonicalizes a fact list for equality comparison.
func normalizeValue(vals []string) string {
	return strings.ToLower(strings.TrimSpace(strings.Join(vals, " | ")))
}
