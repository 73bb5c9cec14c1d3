// Package reportstore keeps the append-only log of generated reports.
package reportstore

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"forestreport/models"
)

// Limits applied to list operations.
const (
	DefaultListAllLimit    = 50
	DefaultListByTypeLimit = 20
	MaxLimit               = 500
)

// Store is the report log. Reports are never updated or deleted.
type Store interface {
	// EnsureSchema creates the backing table/collection if absent. Safe to repeat.
	EnsureSchema(ctx context.Context) error
	// Append stores one report; the id and creation time are assigned by the store.
	Append(ctx context.Context, r NewReport) error
	// ListAll returns up to limit reports, newest first.
	ListAll(ctx context.Context, limit int) ([]models.Report, error)
	// ListByType is ListAll restricted to one report type.
	ListByType(ctx context.Context, reportType models.ReportType, limit int) ([]models.Report, error)
	Close() error
}

// NewReport is the caller-supplied part of a report.
// Parameters and Result are serialized to JSON; empty values are stored as NULL.
type NewReport struct {
	Type        models.ReportType
	Title       string
	Description string
	Parameters  any
	Result      any
	GeneratedBy string
}

// NewSystemReport fills the labels of a report generated by the service itself.
func NewSystemReport(t models.ReportType, result any) NewReport {
	return NewReport{
		Type:        t,
		Title:       t.Title(),
		Description: t.Description(),
		Parameters:  map[string]any{},
		Result:      result,
		GeneratedBy: models.GeneratedBySystem,
	}
}

// NormalizeLimit rejects non-positive limits and clamps large ones to MaxLimit.
func NormalizeLimit(limit int) (int, error) {
	if limit <= 0 {
		return 0, ErrInvalidLimit{Limit: limit}
	}
	if limit > MaxLimit {
		return MaxLimit, nil
	}
	return limit, nil
}

// payload holds the serialized JSON columns of a report.
type payload struct {
	Parameters *string
	Result     *string
}

func encodeReport(r NewReport) (payload, error) {
	params, err := encodeJSON(r.Parameters)
	if err != nil {
		return payload{}, fmt.Errorf("parametros: %w", err)
	}
	res, err := encodeJSON(r.Result)
	if err != nil {
		return payload{}, fmt.Errorf("resultado: %w", err)
	}
	return payload{Parameters: params, Result: res}, nil
}

// encodeJSON returns nil for empty values (nil, empty map/slice/string, nil pointer).
func encodeJSON(v any) (*string, error) {
	if isEmpty(v) {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.String:
		return rv.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func rawJSON(s *string) json.RawMessage {
	if s == nil {
		return nil
	}
	return json.RawMessage(*s)
}
