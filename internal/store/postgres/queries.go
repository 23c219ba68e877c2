package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alfredjeanlab/vendorwatch/internal/model"
	"github.com/alfredjeanlab/vendorwatch/internal/store"
)

// vendorColumns is the column list used for SELECT statements on the vendors table.
const vendorColumns = `id, name, website, root_domain, created_at, updated_at`

// snapshotColumns is the column list used for SELECT statements on the snapshots table.
const snapshotColumns = `id, vendor_id, fingerprint, raw_text, structured,
	extraction_source, context_sources, created_at`

// eventColumns is the column list used for SELECT statements on the risk_events table.
const eventColumns = `id, vendor_id, severity, type, summary, recommended_action,
	findings, source, alert_sent, context_sources, created_at`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryCreateVendor(ctx context.Context, db executor, v *model.Vendor) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO vendors (id, name, website, root_domain, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		v.ID,
		v.Name,
		v.Website,
		v.RootDomain,
		v.CreatedAt,
		v.UpdatedAt,
	)
	return err
}

func queryGetVendor(ctx context.Context, db executor, id string) (*model.Vendor, error) {
	row := db.QueryRowContext(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE id = $1`, id)
	v, err := scanVendor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return v, err
}

func queryListVendors(ctx context.Context, db executor) ([]*model.Vendor, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+vendorColumns+` FROM vendors ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()
	return scanVendors(rows)
}

func queryUpdateVendor(ctx context.Context, db executor, v *model.Vendor) error {
	err := db.QueryRowContext(ctx, `
		UPDATE vendors SET
			name = $2,
			website = $3,
			root_domain = $4,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		v.ID,
		v.Name,
		v.Website,
		v.RootDomain,
	).Scan(&v.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func queryDeleteVendor(ctx context.Context, db executor, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM vendors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func querySaveSnapshot(ctx context.Context, db executor, s *model.Snapshot) error {
	structured, err := jsonbMarshal(s.Structured)
	if err != nil {
		return fmt.Errorf("marshal structured data: %w", err)
	}
	sources, err := jsonbMarshal(s.ContextSources)
	if err != nil {
		return fmt.Errorf("marshal context sources: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO snapshots (
			id, vendor_id, fingerprint, raw_text, structured,
			extraction_source, context_sources, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID,
		s.VendorID,
		s.Fingerprint,
		s.RawText,
		structured,
		s.ExtractionSource,
		sources,
		s.CreatedAt,
	)
	return err
}

func queryLatestSnapshot(ctx context.Context, db executor, vendorID string) (*model.Snapshot, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+snapshotColumns+` FROM snapshots
		WHERE vendor_id = $1
		ORDER BY created_at DESC
		LIMIT 1`,
		vendorID,
	)
	s, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

func queryListSnapshots(ctx context.Context, db executor, filter model.SnapshotFilter) ([]*model.Snapshot, int, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	if filter.VendorID != "" {
		whereClauses = append(whereClauses, "vendor_id = "+nextArg())
		args = append(args, filter.VendorID)
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	// Single query with COUNT(*) OVER() to get total and rows atomically.
	dataQuery := "SELECT COUNT(*) OVER() AS total_count, " + snapshotColumns +
		" FROM snapshots" + whereSQL + " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		dataQuery += " LIMIT " + nextArg()
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		dataQuery += " OFFSET " + nextArg()
		args = append(args, filter.Offset)
	}

	rows, err := db.QueryContext(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*model.Snapshot
	var total int
	for rows.Next() {
		s, t, err := scanSnapshotWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan snapshots: %w", err)
		}
		total = t
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan snapshots: %w", err)
	}

	return snapshots, total, nil
}

func querySaveRiskEvent(ctx context.Context, db executor, e *model.RiskEvent) error {
	findings, err := jsonbMarshal(e.Findings)
	if err != nil {
		return fmt.Errorf("marshal findings: %w", err)
	}
	sources, err := jsonbMarshal(e.ContextSources)
	if err != nil {
		return fmt.Errorf("marshal context sources: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO risk_events (
			id, vendor_id, severity, type, summary, recommended_action,
			findings, source, alert_sent, context_sources, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID,
		e.VendorID,
		string(e.Severity),
		e.Type,
		e.Summary,
		e.RecommendedAction,
		findings,
		string(e.Source),
		e.AlertSent,
		sources,
		e.CreatedAt,
	)
	return err
}

func queryGetRiskEvent(ctx context.Context, db executor, id string) (*model.RiskEvent, error) {
	row := db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM risk_events WHERE id = $1`, id)
	e, err := scanRiskEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return e, err
}

func queryListRiskEvents(ctx context.Context, db executor, filter model.EventFilter) ([]*model.RiskEvent, int, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	if filter.VendorID != "" {
		whereClauses = append(whereClauses, "vendor_id = "+nextArg())
		args = append(args, filter.VendorID)
	}

	if len(filter.Severity) > 0 {
		placeholders := make([]string, len(filter.Severity))
		for i, s := range filter.Severity {
			placeholders[i] = nextArg()
			args = append(args, string(s))
		}
		whereClauses = append(whereClauses, "severity IN ("+strings.Join(placeholders, ", ")+")")
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	dataQuery := "SELECT COUNT(*) OVER() AS total_count, " + eventColumns +
		" FROM risk_events" + whereSQL + " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		dataQuery += " LIMIT " + nextArg()
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		dataQuery += " OFFSET " + nextArg()
		args = append(args, filter.Offset)
	}

	rows, err := db.QueryContext(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list risk events: %w", err)
	}
	defer rows.Close()

	var events []*model.RiskEvent
	var total int
	for rows.Next() {
		e, t, err := scanRiskEventWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan risk events: %w", err)
		}
		total = t
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan risk events: %w", err)
	}

	return events, total, nil
}
