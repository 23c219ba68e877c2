package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alfredjeanlab/vendorwatch/internal/events"
)

// Handler subscribes to alert events and executes the configured shell
// command for each one. The risk event's headline fields are passed to the
// command through VENDORWATCH_* environment variables.
type Handler struct {
	command string
	timeout time.Duration
	logger  *slog.Logger
}

// NewHandler creates an alert hook handler. The command is run via "sh -c"
// for every alert that fires.
func NewHandler(command string, timeout time.Duration, logger *slog.Logger) *Handler {
	return &Handler{command: command, timeout: timeout, logger: logger}
}

// HandleAlert runs the hook command for a single alert payload.
func (h *Handler) HandleAlert(ctx context.Context, alert events.AlertSent) {
	env := map[string]string{
		"VENDORWATCH_EVENT_ID":  alert.EventID,
		"VENDORWATCH_VENDOR_ID": alert.VendorID,
		"VENDORWATCH_SEVERITY":  alert.Severity,
		"VENDORWATCH_SUMMARY":   alert.Summary,
	}
	result := Execute(ctx, h.command, h.timeout, env)
	if result.Err != nil {
		h.logger.Warn("alert hook failed",
			"event", alert.EventID, "error", result.Err,
			"output", truncateOutput(result.Output))
		return
	}
	h.logger.Info("alert hook executed", "event", alert.EventID, "severity", alert.Severity)
}

// StartSubscriber listens for alert events on the bus and runs the hook for
// each. It blocks until ctx is cancelled or the subscription closes.
func (h *Handler) StartSubscriber(ctx context.Context, sub events.Subscriber) error {
	ch, cancel, err := sub.Subscribe(events.TopicAlertSent)
	if err != nil {
		return fmt.Errorf("hooks: subscribe: %w", err)
	}
	defer cancel()

	h.logger.Info("alert hook subscriber started")

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("alert hook subscriber stopping")
			return nil
		case raw, ok := <-ch:
			if !ok {
				h.logger.Info("alert hook subscription channel closed")
				return nil
			}

			var alert events.AlertSent
			if err := json.Unmarshal(raw, &alert); err != nil {
				h.logger.Warn("alert hook: bad event payload", "error", err)
				continue
			}
			h.HandleAlert(ctx, alert)
		}
	}
}

func truncateOutput(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 500 {
		return s[:500] + "..."
	}
	return s
}
