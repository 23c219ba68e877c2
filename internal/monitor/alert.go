package monitor

import (
	"context"
	"log/slog"

	"github.com/alfredjeanlab/vendorwatch/internal/model"
)

// AlertGate filters classified events by severity preference before
// dispatching them to the notifier.
type AlertGate struct {
	severities map[model.Severity]bool
	notifier   Notifier
	logger     *slog.Logger
}

// NewAlertGate builds a gate for the configured severity set. A nil notifier
// disables dispatch entirely; an empty severity set blocks every event.
func NewAlertGate(severities []model.Severity, notifier Notifier, logger *slog.Logger) *AlertGate {
	set := make(map[model.Severity]bool, len(severities))
	for _, s := range severities {
		set[s] = true
	}
	return &AlertGate{severities: set, notifier: notifier, logger: logger}
}

// Dispatch attempts notification for the event and reports whether an alert
// actually went out. Missing configuration and transport failures both
// resolve to false; errors never propagate to the caller.
func (g *AlertGate) Dispatch(ctx context.Context, event *model.RiskEvent) bool {
	if g.notifier == nil || !g.severities[event.Severity] {
		return false
	}
	sent, err := g.notifier.Send(ctx, event)
	if err != nil {
		g.logger.Warn("alert dispatch failed", "event", event.ID, "vendor", event.VendorID, "error", err)
		return false
	}
	return sent
}
