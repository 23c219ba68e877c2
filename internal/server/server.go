// Package server exposes the vendorwatch HTTP API: vendor CRUD, snapshot and
// risk-event history, cycle control, alert settings, and an SSE event stream.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/alfredjeanlab/vendorwatch/internal/events"
	"github.com/alfredjeanlab/vendorwatch/internal/model"
	"github.com/alfredjeanlab/vendorwatch/internal/monitor"
	"github.com/alfredjeanlab/vendorwatch/internal/store"
)

// Settings are the runtime-adjustable cycle defaults.
type Settings struct {
	AlertSeverities []model.Severity
	ResearchMode    string
	CrawlMaxPages   int
}

// VendorwatchServer serves the HTTP API backed by the store and orchestrator.
type VendorwatchServer struct {
	store        store.Store
	publisher    events.Publisher
	orchestrator *monitor.Orchestrator
	sseHub       *sseHub
	logger       *slog.Logger

	settingsMu sync.RWMutex
	settings   Settings
}

// NewVendorwatchServer returns a server backed by the given collaborators.
func NewVendorwatchServer(s store.Store, p events.Publisher, orch *monitor.Orchestrator, settings Settings, logger *slog.Logger) *VendorwatchServer {
	if logger == nil {
		logger = slog.Default()
	}
	if settings.ResearchMode == "" {
		settings.ResearchMode = "basic"
	}
	if settings.CrawlMaxPages < 1 {
		settings.CrawlMaxPages = 5
	}
	return &VendorwatchServer{
		store:        s,
		publisher:    p,
		orchestrator: orch,
		sseHub:       newSSEHub(),
		logger:       logger,
		settings:     settings,
	}
}

// currentSettings returns a copy of the live settings.
func (s *VendorwatchServer) currentSettings() Settings {
	s.settingsMu.RLock()
	defer s.settingsMu.RUnlock()
	cp := s.settings
	cp.AlertSeverities = append([]model.Severity(nil), s.settings.AlertSeverities...)
	return cp
}

// publishAndBroadcast emits an event to NATS and to connected SSE clients.
// Both are best-effort; failures are logged but do not block the caller.
func (s *VendorwatchServer) publishAndBroadcast(ctx context.Context, topic string, event any) {
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, topic, event); err != nil {
			s.logger.Warn("failed to publish event", "topic", topic, "error", err)
		}
	}
	s.broadcastEvent(topic, event)
}

// broadcastEvent fans an event out to SSE clients.
func (s *VendorwatchServer) broadcastEvent(topic string, event any) {
	if s.sseHub == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("failed to marshal event for SSE broadcast", "topic", topic, "error", err)
		return
	}
	s.sseHub.broadcast(topic, payload)
}
