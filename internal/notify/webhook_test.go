package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alfredjeanlab/vendorwatch/internal/model"
)

func TestNewWebhook_DisabledWithoutURL(t *testing.T) {
	if NewWebhook("") != nil {
		t.Error("NewWebhook() with no URL should return nil")
	}
}

func TestWebhookNotifier_Send(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	event := &model.RiskEvent{
		ID:       "re-1",
		VendorID: "vn-1",
		Severity: model.SeverityHigh,
		Type:     "liability_change",
		Summary:  "Liability cap removed",
	}
	sent, err := NewWebhook(srv.URL).Send(context.Background(), event)
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if !sent {
		t.Error("Send() = false, want true")
	}
	if got.Kind != "vendorwatch.alert" {
		t.Errorf("payload kind = %q", got.Kind)
	}
	if got.Event == nil || got.Event.ID != "re-1" {
		t.Errorf("payload event = %+v", got.Event)
	}
}

func TestWebhookNotifier_SendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	sent, err := NewWebhook(srv.URL).Send(context.Background(), &model.RiskEvent{ID: "re-1"})
	if err == nil {
		t.Error("Send() should fail on HTTP 502")
	}
	if sent {
		t.Error("Send() = true on failure")
	}
}
