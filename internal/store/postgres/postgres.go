// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/alfredjeanlab/vendorwatch/internal/model"
	"github.com/alfredjeanlab/vendorwatch/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreateVendor(ctx context.Context, vendor *model.Vendor) error {
	return queryCreateVendor(ctx, s.db, vendor)
}

func (s *PostgresStore) GetVendor(ctx context.Context, id string) (*model.Vendor, error) {
	return queryGetVendor(ctx, s.db, id)
}

func (s *PostgresStore) ListVendors(ctx context.Context) ([]*model.Vendor, error) {
	return queryListVendors(ctx, s.db)
}

func (s *PostgresStore) UpdateVendor(ctx context.Context, vendor *model.Vendor) error {
	return queryUpdateVendor(ctx, s.db, vendor)
}

func (s *PostgresStore) DeleteVendor(ctx context.Context, id string) error {
	return queryDeleteVendor(ctx, s.db, id)
}

func (s *PostgresStore) SaveSnapshot(ctx context.Context, snapshot *model.Snapshot) error {
	return querySaveSnapshot(ctx, s.db, snapshot)
}

func (s *PostgresStore) LatestSnapshot(ctx context.Context, vendorID string) (*model.Snapshot, error) {
	return queryLatestSnapshot(ctx, s.db, vendorID)
}

func (s *PostgresStore) ListSnapshots(ctx context.Context, filter model.SnapshotFilter) ([]*model.Snapshot, int, error) {
	return queryListSnapshots(ctx, s.db, filter)
}

func (s *PostgresStore) SaveRiskEvent(ctx context.Context, event *model.RiskEvent) error {
	return querySaveRiskEvent(ctx, s.db, event)
}

func (s *PostgresStore) GetRiskEvent(ctx context.Context, id string) (*model.RiskEvent, error) {
	return queryGetRiskEvent(ctx, s.db, id)
}

func (s *PostgresStore) ListRiskEvents(ctx context.Context, filter model.EventFilter) ([]*model.RiskEvent, int, error) {
	return queryListRiskEvents(ctx, s.db, filter)
}

// SaveCycleOutcome persists a snapshot and its risk event in one transaction.
func (s *PostgresStore) SaveCycleOutcome(ctx context.Context, snapshot *model.Snapshot, event *model.RiskEvent) error {
	return s.RunInTransaction(ctx, func(tx store.Store) error {
		if err := tx.SaveSnapshot(ctx, snapshot); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		if err := tx.SaveRiskEvent(ctx, event); err != nil {
			return fmt.Errorf("save risk event: %w", err)
		}
		return nil
	})
}

// RunInTransaction begins a database transaction, creates a txStore that
// delegates to it, calls fn, and commits on success or rolls back on error.
func (s *PostgresStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txS := &txStore{tx: tx}
	if err := fn(txS); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

// Compile-time check that txStore implements store.Store.
var _ store.Store = (*txStore)(nil)

func (s *txStore) CreateVendor(ctx context.Context, vendor *model.Vendor) error {
	return queryCreateVendor(ctx, s.tx, vendor)
}

func (s *txStore) GetVendor(ctx context.Context, id string) (*model.Vendor, error) {
	return queryGetVendor(ctx, s.tx, id)
}

func (s *txStore) ListVendors(ctx context.Context) ([]*model.Vendor, error) {
	return queryListVendors(ctx, s.tx)
}

func (s *txStore) UpdateVendor(ctx context.Context, vendor *model.Vendor) error {
	return queryUpdateVendor(ctx, s.tx, vendor)
}

func (s *txStore) DeleteVendor(ctx context.Context, id string) error {
	return queryDeleteVendor(ctx, s.tx, id)
}

func (s *txStore) SaveSnapshot(ctx context.Context, snapshot *model.Snapshot) error {
	return querySaveSnapshot(ctx, s.tx, snapshot)
}

func (s *txStore) LatestSnapshot(ctx context.Context, vendorID string) (*model.Snapshot, error) {
	return queryLatestSnapshot(ctx, s.tx, vendorID)
}

func (s *txStore) ListSnapshots(ctx context.Context, filter model.SnapshotFilter) ([]*model.Snapshot, int, error) {
	return queryListSnapshots(ctx, s.tx, filter)
}

func (s *txStore) SaveRiskEvent(ctx context.Context, event *model.RiskEvent) error {
	return querySaveRiskEvent(ctx, s.tx, event)
}

func (s *txStore) GetRiskEvent(ctx context.Context, id string) (*model.RiskEvent, error) {
	return queryGetRiskEvent(ctx, s.tx, id)
}

func (s *txStore) ListRiskEvents(ctx context.Context, filter model.EventFilter) ([]*model.RiskEvent, int, error) {
	return queryListRiskEvents(ctx, s.tx, filter)
}

func (s *txStore) SaveCycleOutcome(ctx context.Context, snapshot *model.Snapshot, event *model.RiskEvent) error {
	if err := querySaveSnapshot(ctx, s.tx, snapshot); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if err := querySaveRiskEvent(ctx, s.tx, event); err != nil {
		return fmt.Errorf("save risk event: %w", err)
	}
	return nil
}

// RunInTransaction on a txStore reuses the existing transaction (no nesting).
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Close is a no-op for a transaction store; the parent store owns the connection.
func (s *txStore) Close() error {
	return nil
}
