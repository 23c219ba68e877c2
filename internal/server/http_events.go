package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/alfredjeanlab/vendorwatch/internal/model"
	"github.com/alfredjeanlab/vendorwatch/internal/store"
)

// handleListRiskEvents handles GET /v1/events.
func (s *VendorwatchServer) handleListRiskEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.EventFilter{VendorID: q.Get("vendor_id")}
	filter.Limit, filter.Offset = pagination(r)

	if v := q.Get("severity"); v != "" {
		for _, raw := range strings.Split(v, ",") {
			sev := model.Severity(strings.TrimSpace(raw))
			if !sev.IsValid() {
				writeError(w, http.StatusBadRequest, "unknown severity "+string(sev))
				return
			}
			filter.Severity = append(filter.Severity, sev)
		}
	}

	evts, total, err := s.store.ListRiskEvents(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list risk events")
		return
	}
	if evts == nil {
		evts = []*model.RiskEvent{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"events": evts,
		"total":  total,
	})
}

// handleGetRiskEvent handles GET /v1/events/{id}.
func (s *VendorwatchServer) handleGetRiskEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	event, err := s.store.GetRiskEvent(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "risk event not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get risk event")
		return
	}
	writeJSON(w, http.StatusOK, event)
}
