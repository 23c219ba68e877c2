package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alfredjeanlab/vendorwatch/internal/model"
)

func TestExportJSONL_Empty(t *testing.T) {
	ms := newMockStore()
	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), ms, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	if len(lines) != 1 {
		t.Fatalf("expected 1 line (header only), got %d", len(lines))
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.Version != "1" || h.Type != "header" || h.VendorCount != 0 || h.EventCount != 0 {
		t.Fatalf("unexpected header: %+v", h)
	}
}

func TestExportJSONL_FullCorpus(t *testing.T) {
	ms := newMockStore()
	now := time.Now().UTC()

	// Add vendors out of ID order to verify sorting.
	ms.vendors["vn-zzz"] = &model.Vendor{ID: "vn-zzz", Name: "Zenith", Website: "https://zenith.example.com", RootDomain: "zenith.example.com", CreatedAt: now, UpdatedAt: now}
	ms.vendors["vn-aaa"] = &model.Vendor{ID: "vn-aaa", Name: "Acme", Website: "https://acme.com", RootDomain: "acme.com", CreatedAt: now, UpdatedAt: now}

	// Two snapshots for vn-aaa; only the latest should be exported.
	ms.snapshots["vn-aaa"] = []*model.Snapshot{
		{ID: "sn-1", VendorID: "vn-aaa", Fingerprint: "aaa1", CreatedAt: now},
		{ID: "sn-2", VendorID: "vn-aaa", Fingerprint: "aaa2", CreatedAt: now},
	}

	ms.events["re-1"] = &model.RiskEvent{ID: "re-1", VendorID: "vn-aaa", Severity: model.SeverityMedium, Type: "pricing_change", CreatedAt: now}

	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), ms, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	// 1 header + 2 vendors + 1 snapshot + 1 event = 5 lines
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), buf.String())
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.VendorCount != 2 || h.SnapshotCount != 1 || h.EventCount != 1 {
		t.Fatalf("header counts: vendor=%d snapshot=%d event=%d", h.VendorCount, h.SnapshotCount, h.EventCount)
	}

	// Vendors are sorted by ID (vn-aaa before vn-zzz).
	var rec1, rec2 record
	if err := json.Unmarshal([]byte(lines[1]), &rec1); err != nil {
		t.Fatalf("unmarshal line 1: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[2]), &rec2); err != nil {
		t.Fatalf("unmarshal line 2: %v", err)
	}
	if rec1.Type != "vendor" || rec2.Type != "vendor" {
		t.Fatalf("expected vendor types, got %q and %q", rec1.Type, rec2.Type)
	}
	data1, _ := json.Marshal(rec1.Data)
	data2, _ := json.Marshal(rec2.Data)
	var v1, v2 model.Vendor
	if err := json.Unmarshal(data1, &v1); err != nil {
		t.Fatalf("unmarshal v1: %v", err)
	}
	if err := json.Unmarshal(data2, &v2); err != nil {
		t.Fatalf("unmarshal v2: %v", err)
	}
	if v1.ID != "vn-aaa" || v2.ID != "vn-zzz" {
		t.Fatalf("vendors not sorted: got %q, %q", v1.ID, v2.ID)
	}

	// The snapshot line carries the latest fingerprint.
	var rec3 record
	if err := json.Unmarshal([]byte(lines[3]), &rec3); err != nil {
		t.Fatalf("unmarshal line 3: %v", err)
	}
	if rec3.Type != "snapshot" {
		t.Fatalf("expected snapshot type, got %q", rec3.Type)
	}
	data3, _ := json.Marshal(rec3.Data)
	var snap model.Snapshot
	if err := json.Unmarshal(data3, &snap); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if snap.ID != "sn-2" {
		t.Fatalf("expected latest snapshot sn-2, got %q", snap.ID)
	}

	var rec4 record
	if err := json.Unmarshal([]byte(lines[4]), &rec4); err != nil {
		t.Fatalf("unmarshal line 4: %v", err)
	}
	if rec4.Type != "risk_event" {
		t.Fatalf("expected risk_event type, got %q", rec4.Type)
	}
}

func nonEmptyLines(s string) []string {
	var result []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			result = append(result, line)
		}
	}
	return result
}
