package events

import (
	"context"

	"github.com/alfredjeanlab/vendorwatch/internal/model"
)

// Event topic constants
const (
	TopicVendorCreated = "vendorwatch.vendor.created"
	TopicVendorUpdated = "vendorwatch.vendor.updated"
	TopicVendorDeleted = "vendorwatch.vendor.deleted"

	// Monitoring cycle lifecycle events
	TopicCycleStarted   = "vendorwatch.cycle.started"
	TopicCycleProgress  = "vendorwatch.cycle.progress"
	TopicCycleResult    = "vendorwatch.cycle.result"
	TopicCycleCompleted = "vendorwatch.cycle.completed"

	TopicRiskCreated = "vendorwatch.risk.created"
	TopicAlertSent   = "vendorwatch.alert.sent"
)

// Event types

type VendorCreated struct {
	Vendor *model.Vendor `json:"vendor"`
}

type VendorUpdated struct {
	Vendor  *model.Vendor  `json:"vendor"`
	Changes map[string]any `json:"changes"` // field name -> new value
}

type VendorDeleted struct {
	VendorID string `json:"vendor_id"`
}

// Cycle events

type CycleStarted struct {
	CycleID     string `json:"cycle_id"`
	VendorCount int    `json:"vendor_count"`
}

type CycleProgress struct {
	CycleID    string `json:"cycle_id"`
	VendorID   string `json:"vendor_id"`
	VendorName string `json:"vendor_name"`
	Index      int    `json:"index"` // 1-based position in the cycle
	Total      int    `json:"total"`
	Stage      string `json:"stage"`
}

type CycleResult struct {
	CycleID    string `json:"cycle_id"`
	VendorID   string `json:"vendor_id"`
	VendorName string `json:"vendor_name"`
	Status     string `json:"status"` // first_snapshot, unchanged, changed, error
	EventID    string `json:"event_id,omitempty"`
	Severity   string `json:"severity,omitempty"`
	Error      string `json:"error,omitempty"`
}

type CycleCompleted struct {
	CycleID   string `json:"cycle_id"`
	Checked   int    `json:"checked"`
	Changed   int    `json:"changed"`
	Errored   int    `json:"errored"`
	Cancelled bool   `json:"cancelled"`
	Duration  string `json:"duration"`
}

type RiskCreated struct {
	Event *model.RiskEvent `json:"event"`
}

type AlertSent struct {
	EventID  string `json:"event_id"`
	VendorID string `json:"vendor_id"`
	Severity string `json:"severity"`
	Summary  string `json:"summary,omitempty"` // one-line commitment summary
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
