package model

// EventFilter narrows risk-event listings.
type EventFilter struct {
	VendorID string
	Severity []Severity
	Limit    int
	Offset   int
}

// SnapshotFilter narrows snapshot listings.
type SnapshotFilter struct {
	VendorID string
	Limit    int
	Offset   int
}
