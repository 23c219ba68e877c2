package server

import (
	"encoding/json"
	"net/http"

	"github.com/alfredjeanlab/vendorwatch/internal/model"
)

type alertSettingsPayload struct {
	Severities []model.Severity `json:"severities"`
}

// handleGetAlertSettings handles GET /v1/settings/alerts.
func (s *VendorwatchServer) handleGetAlertSettings(w http.ResponseWriter, _ *http.Request) {
	settings := s.currentSettings()
	if settings.AlertSeverities == nil {
		settings.AlertSeverities = []model.Severity{}
	}
	writeJSON(w, http.StatusOK, alertSettingsPayload{Severities: settings.AlertSeverities})
}

// handlePutAlertSettings handles PUT /v1/settings/alerts. An empty severity
// list is valid and silences all alerts.
func (s *VendorwatchServer) handlePutAlertSettings(w http.ResponseWriter, r *http.Request) {
	var in alertSettingsPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	for _, sev := range in.Severities {
		if !sev.IsValid() {
			writeError(w, http.StatusBadRequest, "unknown severity "+string(sev))
			return
		}
	}

	s.settingsMu.Lock()
	s.settings.AlertSeverities = append([]model.Severity(nil), in.Severities...)
	s.settingsMu.Unlock()

	if in.Severities == nil {
		in.Severities = []model.Severity{}
	}
	writeJSON(w, http.StatusOK, in)
}
