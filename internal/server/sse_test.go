package server

import (
	"fmt"
	"testing"
)

func TestMatchTopicPattern(t *testing.T) {
	tests := []struct {
		pattern string
		topic   string
		want    bool
	}{
		{"vendorwatch.cycle.result", "vendorwatch.cycle.result", true},
		{"vendorwatch.cycle.*", "vendorwatch.cycle.result", true},
		{"vendorwatch.cycle.*", "vendorwatch.cycle.result.extra", false},
		{"vendorwatch.*.created", "vendorwatch.vendor.created", true},
		{"vendorwatch.>", "vendorwatch.cycle.result", true},
		{"vendorwatch.>", "vendorwatch", false},
		{"vendorwatch.vendor.*", "vendorwatch.risk.created", false},
		{"*", "vendorwatch", true},
		{">", "vendorwatch.cycle.result", true},
	}
	for _, tt := range tests {
		if got := matchTopicPattern(tt.pattern, tt.topic); got != tt.want {
			t.Errorf("matchTopicPattern(%q, %q) = %v, want %v", tt.pattern, tt.topic, got, tt.want)
		}
	}
}

func TestSSEHub_Broadcast(t *testing.T) {
	hub := newSSEHub()
	all := hub.subscribe(nil)
	defer hub.unsubscribe(all)
	filtered := hub.subscribe([]string{"vendorwatch.cycle.*"})
	defer hub.unsubscribe(filtered)

	hub.broadcast("vendorwatch.vendor.created", []byte(`{"id":"vn-1"}`))
	hub.broadcast("vendorwatch.cycle.result", []byte(`{"ok":true}`))

	if got := len(all.ch); got != 2 {
		t.Errorf("unfiltered client received %d events, want 2", got)
	}
	if got := len(filtered.ch); got != 1 {
		t.Fatalf("filtered client received %d events, want 1", got)
	}
	evt := <-filtered.ch
	if evt.Topic != "vendorwatch.cycle.result" {
		t.Errorf("filtered client got topic %q", evt.Topic)
	}
}

func TestSSEHub_EventsSince(t *testing.T) {
	hub := newSSEHub()
	for i := range 5 {
		hub.broadcast("vendorwatch.cycle.progress", []byte(fmt.Sprintf(`{"n":%d}`, i)))
	}

	replayed := hub.eventsSince(2)
	if len(replayed) != 3 {
		t.Fatalf("eventsSince(2) returned %d events, want 3", len(replayed))
	}
	if replayed[0].ID != 3 || replayed[2].ID != 5 {
		t.Errorf("replay IDs = %d..%d, want 3..5", replayed[0].ID, replayed[2].ID)
	}

	if got := hub.eventsSince(5); got != nil {
		t.Errorf("eventsSince(latest) = %d events, want none", len(got))
	}
}

func TestSSEHub_RingWraps(t *testing.T) {
	hub := newSSEHub()
	total := sseRingBufferSize + 10
	for i := 0; i < total; i++ {
		hub.broadcast("vendorwatch.cycle.progress", []byte(`{}`))
	}

	replayed := hub.eventsSince(0)
	if len(replayed) != sseRingBufferSize {
		t.Fatalf("ring holds %d events, want %d", len(replayed), sseRingBufferSize)
	}
	// Oldest surviving event is total - sseRingBufferSize + 1.
	if want := uint64(total - sseRingBufferSize + 1); replayed[0].ID != want {
		t.Errorf("oldest replayed ID = %d, want %d", replayed[0].ID, want)
	}
}

func TestSSEHub_SlowClientDropped(t *testing.T) {
	hub := newSSEHub()
	c := hub.subscribe(nil)
	defer hub.unsubscribe(c)

	// Overflow the client's buffer; broadcast must not block.
	for i := 0; i < cap(c.ch)+20; i++ {
		hub.broadcast("vendorwatch.cycle.progress", []byte(`{}`))
	}
	if got := len(c.ch); got != cap(c.ch) {
		t.Errorf("client buffer = %d, want full at %d", got, cap(c.ch))
	}
}
