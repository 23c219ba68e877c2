package model

import "time"

// Snapshot is one stored observation of a vendor's published content.
// Snapshots are append-only; the most recent snapshot for a vendor is the
// baseline the next cycle compares against.
type Snapshot struct {
	ID               string          `json:"id"`
	VendorID         string          `json:"vendor_id"`
	Fingerprint      string          `json:"fingerprint"`
	RawText          string          `json:"raw_text"`
	Structured       *StructuredData `json:"structured,omitempty"`
	ExtractionSource string          `json:"extraction_source,omitempty"`
	ContextSources   []string        `json:"context_sources,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}
