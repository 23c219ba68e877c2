package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/alfredjeanlab/vendorwatch/internal/events"
	"github.com/alfredjeanlab/vendorwatch/internal/monitor"
)

type startCycleInput struct {
	VendorID     string `json:"vendor_id,omitempty"`
	ResearchMode string `json:"research_mode,omitempty"`
}

// handleStartCycle handles POST /v1/cycles. The cycle runs in the background;
// progress is observable on the SSE stream and via NATS.
func (s *VendorwatchServer) handleStartCycle(w http.ResponseWriter, r *http.Request) {
	if s.orchestrator == nil {
		writeError(w, http.StatusServiceUnavailable, "monitoring is not configured")
		return
	}
	if s.orchestrator.Running() {
		writeError(w, http.StatusConflict, "a cycle is already running")
		return
	}

	var in startCycleInput
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&in)
	}

	settings := s.currentSettings()
	opts := monitor.Options{
		VendorID:        in.VendorID,
		ResearchMode:    settings.ResearchMode,
		AlertSeverities: settings.AlertSeverities,
		CrawlMaxPages:   settings.CrawlMaxPages,
		Progress:        s.broadcastProgress,
	}
	if in.ResearchMode != "" {
		if in.ResearchMode != "basic" && in.ResearchMode != "deep" {
			writeError(w, http.StatusBadRequest, "research_mode must be basic or deep")
			return
		}
		opts.ResearchMode = in.ResearchMode
	}
	if in.VendorID != "" {
		// Fail fast on unknown vendors instead of inside the background run.
		if _, err := s.store.GetVendor(r.Context(), in.VendorID); err != nil {
			writeError(w, http.StatusNotFound, "vendor not found")
			return
		}
	}

	go func() {
		// The cycle outlives the HTTP request; cancellation goes through
		// RequestCancellation, not request context.
		if _, err := s.orchestrator.RunCycle(context.Background(), opts); err != nil {
			s.logger.Error("cycle run failed", "error", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]any{
		"started":       true,
		"research_mode": opts.ResearchMode,
	})
}

// handleCycleStatus handles GET /v1/cycles/current.
func (s *VendorwatchServer) handleCycleStatus(w http.ResponseWriter, _ *http.Request) {
	running := s.orchestrator != nil && s.orchestrator.Running()
	writeJSON(w, http.StatusOK, map[string]any{"running": running})
}

// handleCancelCycle handles DELETE /v1/cycles/current. Cancellation is
// cooperative: the in-flight vendor finishes before the cycle stops.
func (s *VendorwatchServer) handleCancelCycle(w http.ResponseWriter, _ *http.Request) {
	if s.orchestrator == nil || !s.orchestrator.Running() {
		writeError(w, http.StatusConflict, "no cycle is running")
		return
	}
	s.orchestrator.RequestCancellation()
	writeJSON(w, http.StatusOK, map[string]any{"cancelling": true})
}

// broadcastProgress mirrors cycle progress onto the SSE stream.
func (s *VendorwatchServer) broadcastProgress(ev monitor.ProgressEvent) {
	topic := events.TopicCycleProgress
	switch ev.Kind {
	case "result":
		topic = events.TopicCycleResult
	case "complete":
		topic = events.TopicCycleCompleted
	}
	s.broadcastEvent(topic, ev)
}
