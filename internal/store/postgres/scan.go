package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/alfredjeanlab/vendorwatch/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanVendor scans a single row into a model.Vendor.
// The row must contain columns in the order defined by vendorColumns.
func scanVendor(row scannable) (*model.Vendor, error) {
	var v model.Vendor
	err := row.Scan(
		&v.ID,
		&v.Name,
		&v.Website,
		&v.RootDomain,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// scanVendors scans multiple rows into a slice of model.Vendor pointers.
func scanVendors(rows *sql.Rows) ([]*model.Vendor, error) {
	var vendors []*model.Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return vendors, nil
}

// scanSnapshot scans a single row into a model.Snapshot.
// The row must contain columns in the order defined by snapshotColumns.
func scanSnapshot(row scannable) (*model.Snapshot, error) {
	var s model.Snapshot
	var (
		structured []byte
		sources    []byte
	)
	err := row.Scan(
		&s.ID,
		&s.VendorID,
		&s.Fingerprint,
		&s.RawText,
		&structured,
		&s.ExtractionSource,
		&sources,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := fillSnapshot(&s, structured, sources); err != nil {
		return nil, err
	}
	return &s, nil
}

// scanSnapshotWithTotal scans a row that has a leading total_count column
// followed by the standard snapshot columns. Used by queryListSnapshots with
// COUNT(*) OVER().
func scanSnapshotWithTotal(row scannable) (*model.Snapshot, int, error) {
	var total int
	var s model.Snapshot
	var (
		structured []byte
		sources    []byte
	)
	err := row.Scan(
		&total,
		&s.ID,
		&s.VendorID,
		&s.Fingerprint,
		&s.RawText,
		&structured,
		&s.ExtractionSource,
		&sources,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, 0, err
	}
	if err := fillSnapshot(&s, structured, sources); err != nil {
		return nil, 0, err
	}
	return &s, total, nil
}

func fillSnapshot(s *model.Snapshot, structured, sources []byte) error {
	if len(structured) > 0 {
		s.Structured = &model.StructuredData{}
		if err := json.Unmarshal(structured, s.Structured); err != nil {
			return fmt.Errorf("unmarshal structured data: %w", err)
		}
	}
	if len(sources) > 0 {
		if err := json.Unmarshal(sources, &s.ContextSources); err != nil {
			return fmt.Errorf("unmarshal context sources: %w", err)
		}
	}
	return nil
}

// scanRiskEvent scans a single row into a model.RiskEvent.
// The row must contain columns in the order defined by eventColumns.
func scanRiskEvent(row scannable) (*model.RiskEvent, error) {
	var e model.RiskEvent
	var (
		findings []byte
		sources  []byte
	)
	err := row.Scan(
		&e.ID,
		&e.VendorID,
		&e.Severity,
		&e.Type,
		&e.Summary,
		&e.RecommendedAction,
		&findings,
		&e.Source,
		&e.AlertSent,
		&sources,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := fillRiskEvent(&e, findings, sources); err != nil {
		return nil, err
	}
	return &e, nil
}

// scanRiskEventWithTotal scans a row that has a leading total_count column
// followed by the standard risk_events columns.
func scanRiskEventWithTotal(row scannable) (*model.RiskEvent, int, error) {
	var total int
	var e model.RiskEvent
	var (
		findings []byte
		sources  []byte
	)
	err := row.Scan(
		&total,
		&e.ID,
		&e.VendorID,
		&e.Severity,
		&e.Type,
		&e.Summary,
		&e.RecommendedAction,
		&findings,
		&e.Source,
		&e.AlertSent,
		&sources,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, 0, err
	}
	if err := fillRiskEvent(&e, findings, sources); err != nil {
		return nil, 0, err
	}
	return &e, total, nil
}

func fillRiskEvent(e *model.RiskEvent, findings, sources []byte) error {
	if len(findings) > 0 {
		if err := json.Unmarshal(findings, &e.Findings); err != nil {
			return fmt.Errorf("unmarshal findings: %w", err)
		}
	}
	if len(sources) > 0 {
		if err := json.Unmarshal(sources, &e.ContextSources); err != nil {
			return fmt.Errorf("unmarshal context sources: %w", err)
		}
	}
	return nil
}

// jsonbMarshal converts a value to a []byte suitable for JSONB columns.
// Nil pointers and empty slices produce a NULL column.
func jsonbMarshal(v any) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case *model.StructuredData:
		if val == nil {
			return nil, nil
		}
	case []string:
		if len(val) == 0 {
			return nil, nil
		}
	case []model.RiskFinding:
		if len(val) == 0 {
			return nil, nil
		}
	}
	return json.Marshal(v)
}
