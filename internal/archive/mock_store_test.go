package archive

import (
	"context"
	"sort"
	"sync"

	"github.com/alfredjeanlab/vendorwatch/internal/model"
	"github.com/alfredjeanlab/vendorwatch/internal/store"
)

// mockStore is an in-memory store.Store for archive tests.
type mockStore struct {
	mu        sync.Mutex
	vendors   map[string]*model.Vendor
	snapshots map[string][]*model.Snapshot // by vendor ID, append order
	events    map[string]*model.RiskEvent
}

func newMockStore() *mockStore {
	return &mockStore{
		vendors:   make(map[string]*model.Vendor),
		snapshots: make(map[string][]*model.Snapshot),
		events:    make(map[string]*model.RiskEvent),
	}
}

func (m *mockStore) CreateVendor(_ context.Context, v *model.Vendor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vendors[v.ID] = v
	return nil
}

func (m *mockStore) GetVendor(_ context.Context, id string) (*model.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vendors[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return v, nil
}

func (m *mockStore) ListVendors(_ context.Context) ([]*model.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Vendor, 0, len(m.vendors))
	for _, v := range m.vendors {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockStore) UpdateVendor(_ context.Context, v *model.Vendor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vendors[v.ID]; !ok {
		return store.ErrNotFound
	}
	m.vendors[v.ID] = v
	return nil
}

func (m *mockStore) DeleteVendor(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vendors[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.vendors, id)
	delete(m.snapshots, id)
	return nil
}

func (m *mockStore) SaveSnapshot(_ context.Context, snap *model.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[snap.VendorID] = append(m.snapshots[snap.VendorID], snap)
	return nil
}

func (m *mockStore) LatestSnapshot(_ context.Context, vendorID string) (*model.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snaps := m.snapshots[vendorID]
	if len(snaps) == 0 {
		return nil, nil
	}
	return snaps[len(snaps)-1], nil
}

func (m *mockStore) ListSnapshots(_ context.Context, filter model.SnapshotFilter) ([]*model.Snapshot, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Snapshot
	for vendorID, snaps := range m.snapshots {
		if filter.VendorID != "" && vendorID != filter.VendorID {
			continue
		}
		out = append(out, snaps...)
	}
	return out, len(out), nil
}

func (m *mockStore) SaveRiskEvent(_ context.Context, event *model.RiskEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[event.ID] = event
	return nil
}

func (m *mockStore) GetRiskEvent(_ context.Context, id string) (*model.RiskEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return e, nil
}

func (m *mockStore) ListRiskEvents(_ context.Context, filter model.EventFilter) ([]*model.RiskEvent, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.RiskEvent
	for _, e := range m.events {
		if filter.VendorID != "" && e.VendorID != filter.VendorID {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (m *mockStore) SaveCycleOutcome(ctx context.Context, snap *model.Snapshot, event *model.RiskEvent) error {
	if err := m.SaveSnapshot(ctx, snap); err != nil {
		return err
	}
	if event != nil {
		return m.SaveRiskEvent(ctx, event)
	}
	return nil
}

func (m *mockStore) RunInTransaction(_ context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *mockStore) Close() error { return nil }
