// Package archive exports the monitoring corpus as JSONL and ships it to
// configured destinations on a schedule.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/alfredjeanlab/vendorwatch/internal/model"
	"github.com/alfredjeanlab/vendorwatch/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version       string    `json:"version"`
	Type          string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	VendorCount   int       `json:"vendor_count"`
	SnapshotCount int       `json:"snapshot_count"`
	EventCount    int       `json:"event_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ExportJSONL writes all vendors, their latest snapshots, and all risk
// events from the store as JSONL to w. Vendors are sorted by ID.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	vendors, err := s.ListVendors(ctx)
	if err != nil {
		return fmt.Errorf("list vendors: %w", err)
	}
	sort.Slice(vendors, func(i, j int) bool {
		return vendors[i].ID < vendors[j].ID
	})

	// One baseline snapshot per vendor; historical snapshots stay in the DB.
	snapshots := make([]*model.Snapshot, 0, len(vendors))
	for _, v := range vendors {
		snap, err := s.LatestSnapshot(ctx, v.ID)
		if err != nil {
			return fmt.Errorf("latest snapshot for %s: %w", v.ID, err)
		}
		if snap != nil {
			snapshots = append(snapshots, snap)
		}
	}

	events, _, err := s.ListRiskEvents(ctx, model.EventFilter{})
	if err != nil {
		return fmt.Errorf("list risk events: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:       "1",
		Type:          "header",
		Timestamp:     time.Now().UTC(),
		VendorCount:   len(vendors),
		SnapshotCount: len(snapshots),
		EventCount:    len(events),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, v := range vendors {
		if err := enc.Encode(record{Type: "vendor", Data: v}); err != nil {
			return fmt.Errorf("encode vendor %s: %w", v.ID, err)
		}
	}
	for _, snap := range snapshots {
		if err := enc.Encode(record{Type: "snapshot", Data: snap}); err != nil {
			return fmt.Errorf("encode snapshot %s: %w", snap.ID, err)
		}
	}
	for _, e := range events {
		if err := enc.Encode(record{Type: "risk_event", Data: e}); err != nil {
			return fmt.Errorf("encode risk event %s: %w", e.ID, err)
		}
	}
	return nil
}
