package hooks

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alfredjeanlab/vendorwatch/internal/events"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func TestExecute(t *testing.T) {
	res := Execute(context.Background(), "echo hello", 0, nil)
	if res.Err != nil {
		t.Fatalf("Execute: %v", res.Err)
	}
	if res.Output != "hello" {
		t.Errorf("output = %q", res.Output)
	}
}

func TestExecute_Env(t *testing.T) {
	res := Execute(context.Background(), "echo $VENDORWATCH_SEVERITY", 0, map[string]string{
		"VENDORWATCH_SEVERITY": "high",
	})
	if res.Err != nil {
		t.Fatalf("Execute: %v", res.Err)
	}
	if res.Output != "high" {
		t.Errorf("output = %q", res.Output)
	}
}

func TestExecute_Failure(t *testing.T) {
	res := Execute(context.Background(), "echo oops >&2; exit 3", 0, nil)
	if res.Err == nil {
		t.Fatal("expected error from failing command")
	}
	if res.Output != "oops" {
		t.Errorf("output = %q", res.Output)
	}
}

// fakeSubscriber delivers pre-queued payloads on a channel.
type fakeSubscriber struct {
	ch chan []byte
}

func (f *fakeSubscriber) Subscribe(topic string) (<-chan []byte, func(), error) {
	return f.ch, func() {}, nil
}

func (f *fakeSubscriber) Close() error { return nil }

func TestStartSubscriber_RunsHook(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "alert.txt")
	h := NewHandler("echo $VENDORWATCH_EVENT_ID:$VENDORWATCH_SEVERITY:$VENDORWATCH_SUMMARY > "+outFile, 0, testLogger())

	sub := &fakeSubscriber{ch: make(chan []byte, 1)}
	payload, _ := json.Marshal(events.AlertSent{
		EventID: "re-1", VendorID: "vn-1", Severity: "high",
		Summary: "Liability cap: 12 months",
	})
	sub.ch <- payload

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.StartSubscriber(ctx, sub) }()

	deadline := time.Now().Add(5 * time.Second)
	var content string
	for time.Now().Before(deadline) {
		if data, err := os.ReadFile(outFile); err == nil {
			content = strings.TrimSpace(string(data))
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("StartSubscriber: %v", err)
	}
	want := "re-1:high:Liability cap: 12 months"
	if content != want {
		t.Errorf("hook wrote %q, want %q", content, want)
	}
}
