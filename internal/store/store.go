package store

import (
	"context"
	"errors"

	"github.com/alfredjeanlab/vendorwatch/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for vendors, snapshots, and risk events.
type Store interface {
	// Vendor CRUD
	CreateVendor(ctx context.Context, vendor *model.Vendor) error
	GetVendor(ctx context.Context, id string) (*model.Vendor, error)
	ListVendors(ctx context.Context) ([]*model.Vendor, error)
	UpdateVendor(ctx context.Context, vendor *model.Vendor) error
	DeleteVendor(ctx context.Context, id string) error // cascades to snapshots and risk events

	// Snapshots (append-only)
	SaveSnapshot(ctx context.Context, snapshot *model.Snapshot) error
	LatestSnapshot(ctx context.Context, vendorID string) (*model.Snapshot, error) // (nil, nil) when the vendor has none
	ListSnapshots(ctx context.Context, filter model.SnapshotFilter) ([]*model.Snapshot, int, error)

	// Risk events (append-only; alert_sent is fixed at insert time)
	SaveRiskEvent(ctx context.Context, event *model.RiskEvent) error
	GetRiskEvent(ctx context.Context, id string) (*model.RiskEvent, error)
	ListRiskEvents(ctx context.Context, filter model.EventFilter) ([]*model.RiskEvent, int, error)

	// SaveCycleOutcome persists a snapshot and its risk event atomically.
	// A risk event is never visible without the snapshot it was derived from.
	SaveCycleOutcome(ctx context.Context, snapshot *model.Snapshot, event *model.RiskEvent) error

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
