package server

import (
	"encoding/json"
	"net/http"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *VendorwatchServer) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/vendors", s.handleCreateVendor)
	mux.HandleFunc("GET /v1/vendors", s.handleListVendors)
	mux.HandleFunc("GET /v1/vendors/{id}", s.handleGetVendor)
	mux.HandleFunc("PATCH /v1/vendors/{id}", s.handleUpdateVendor)
	mux.HandleFunc("DELETE /v1/vendors/{id}", s.handleDeleteVendor)
	mux.HandleFunc("GET /v1/vendors/{id}/snapshots", s.handleListSnapshots)
	mux.HandleFunc("GET /v1/events", s.handleListRiskEvents)
	mux.HandleFunc("GET /v1/events/{id}", s.handleGetRiskEvent)
	mux.HandleFunc("POST /v1/cycles", s.handleStartCycle)
	mux.HandleFunc("GET /v1/cycles/current", s.handleCycleStatus)
	mux.HandleFunc("DELETE /v1/cycles/current", s.handleCancelCycle)
	mux.HandleFunc("GET /v1/settings/alerts", s.handleGetAlertSettings)
	mux.HandleFunc("PUT /v1/settings/alerts", s.handlePutAlertSettings)
	mux.HandleFunc("GET /v1/events/stream", s.handleEventStream)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	return AuthMiddleware(authToken, RecoveryMiddleware(s.logger, mux))
}

// handleHealth handles GET /v1/health.
func (s *VendorwatchServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
