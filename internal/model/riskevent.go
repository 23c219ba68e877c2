package model

import "time"

// Severity grades how urgent a risk event is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// IsValid checks whether the severity is a known value.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// Category groups risk findings into the four reporting buckets.
type Category string

const (
	CategoryLegal        Category = "legal"
	CategoryDataSecurity Category = "data_security"
	CategoryFinancial    Category = "financial"
	CategoryOperational  Category = "operational"
)

// Categories lists all categories in canonical reporting order.
var Categories = []Category{CategoryLegal, CategoryDataSecurity, CategoryFinancial, CategoryOperational}

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// Label returns the human-readable category name used in summaries.
func (c Category) Label() string {
	switch c {
	case CategoryLegal:
		return "Legal"
	case CategoryDataSecurity:
		return "Data & Security"
	case CategoryFinancial:
		return "Financial"
	case CategoryOperational:
		return "Operational"
	}
	return string(c)
}

// IsValid checks whether the category is a known value.
func (c Category) IsValid() bool {
	switch c {
	case CategoryLegal, CategoryDataSecurity, CategoryFinancial, CategoryOperational:
		return true
	}
	return false
}

// EventSource records which engine produced a risk event's classification.
type EventSource string

const (
	SourceRules EventSource = "rules"
	SourceAI    EventSource = "ai"
)

// RiskFinding is one categorized, human-readable risk fact or gap.
type RiskFinding struct {
	Category Category `json:"category"`
	Fact     string   `json:"fact"`
	Concern  Severity `json:"concern"`
}

// RiskEvent records one classified change (or baseline) for a vendor.
// Events are append-only and always created alongside a snapshot in the same
// cycle; an unchanged cycle produces neither.
type RiskEvent struct {
	ID                string        `json:"id"`
	VendorID          string        `json:"vendor_id"`
	Severity          Severity      `json:"severity"`
	Type              string        `json:"type"`
	Summary           string        `json:"summary"`
	RecommendedAction string        `json:"recommended_action"`
	Findings          []RiskFinding `json:"findings,omitempty"`
	Source            EventSource   `json:"source"`
	AlertSent         bool          `json:"alert_sent"`
	ContextSources    []string      `json:"context_sources,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
}
