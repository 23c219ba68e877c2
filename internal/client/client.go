// Package client provides a typed HTTP/JSON client for the vendorwatch REST
// API, used by the CLI commands.
package client

import (
	"context"

	"github.com/alfredjeanlab/vendorwatch/internal/model"
)

// CreateVendorRequest is the body for POST /v1/vendors.
type CreateVendorRequest struct {
	Name    string `json:"name"`
	Website string `json:"website"`
}

// UpdateVendorRequest is the body for PATCH /v1/vendors/{id}. Nil fields are
// left unchanged.
type UpdateVendorRequest struct {
	Name    *string `json:"name,omitempty"`
	Website *string `json:"website,omitempty"`
}

// ListVendorsResponse is the body of GET /v1/vendors.
type ListVendorsResponse struct {
	Vendors []*model.Vendor `json:"vendors"`
	Total   int             `json:"total"`
}

// ListSnapshotsResponse is the body of GET /v1/vendors/{id}/snapshots.
type ListSnapshotsResponse struct {
	Snapshots []*model.Snapshot `json:"snapshots"`
	Total     int               `json:"total"`
}

// ListEventsRequest narrows GET /v1/events.
type ListEventsRequest struct {
	VendorID string
	Severity []string
	Limit    int
	Offset   int
}

// ListEventsResponse is the body of GET /v1/events.
type ListEventsResponse struct {
	Events []*model.RiskEvent `json:"events"`
	Total  int                `json:"total"`
}

// StartCycleRequest is the body for POST /v1/cycles.
type StartCycleRequest struct {
	VendorID     string `json:"vendor_id,omitempty"`
	ResearchMode string `json:"research_mode,omitempty"`
}

// StartCycleResponse is the body of POST /v1/cycles.
type StartCycleResponse struct {
	Started      bool   `json:"started"`
	ResearchMode string `json:"research_mode"`
}

// AlertSettings mirrors the /v1/settings/alerts payload.
type AlertSettings struct {
	Severities []model.Severity `json:"severities"`
}

// API is the interface the CLI commands program against. It is implemented
// by HTTPClient.
type API interface {
	CreateVendor(ctx context.Context, req *CreateVendorRequest) (*model.Vendor, error)
	GetVendor(ctx context.Context, id string) (*model.Vendor, error)
	ListVendors(ctx context.Context) (*ListVendorsResponse, error)
	UpdateVendor(ctx context.Context, id string, req *UpdateVendorRequest) (*model.Vendor, error)
	DeleteVendor(ctx context.Context, id string) error

	ListSnapshots(ctx context.Context, vendorID string, limit, offset int) (*ListSnapshotsResponse, error)
	ListRiskEvents(ctx context.Context, req *ListEventsRequest) (*ListEventsResponse, error)
	GetRiskEvent(ctx context.Context, id string) (*model.RiskEvent, error)

	StartCycle(ctx context.Context, req *StartCycleRequest) (*StartCycleResponse, error)
	CycleRunning(ctx context.Context) (bool, error)
	CancelCycle(ctx context.Context) error

	GetAlertSettings(ctx context.Context) (*AlertSettings, error)
	PutAlertSettings(ctx context.Context, settings *AlertSettings) error

	Health(ctx context.Context) error
	StreamEvents(ctx context.Context, topics []string, lastEventID string) (<-chan StreamEvent, error)

	Close() error
}
