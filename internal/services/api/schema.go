// Package api exposes the allow-listed database proxy mounted under /api/.
package api

import (
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
)

// ColumnKind constrains the accepted JSON value for a column.
type ColumnKind string

const (
	KindText   ColumnKind = "text"
	KindInt    ColumnKind = "integer"
	KindBool   ColumnKind = "boolean"
	KindMillis ColumnKind = "timestamp_ms"
)

// Column describes one exposed column of an allow-listed table.
type Column struct {
	Name     string     `json:"name"`
	Kind     ColumnKind `json:"kind"`
	Required bool       `json:"required,omitempty"`
	Writable bool       `json:"writable,omitempty"`
}

// Table describes one allow-listed table and what the proxy permits on it.
// NoDelete blocks only row deletion; creates and updates stay allowed.
type Table struct {
	Name       string   `json:"name"`
	Columns    []Column `json:"columns"`
	SlugColumn string   `json:"slug_column,omitempty"`
	ReadOnly   bool     `json:"read_only,omitempty"`
	NoDelete   bool     `json:"delete_blocked,omitempty"`
	OrderBy    string   `json:"-"`
}

// tables is the proxy allow list. Content tables accept writes; document
// tables mutate only through the studio service, so the proxy reads them.
var tables = []Table{
	{
		Name: "projects",
		Columns: []Column{
			{Name: "id", Kind: KindText},
			{Name: "slug", Kind: KindText, Required: true, Writable: true},
			{Name: "title", Kind: KindText, Required: true, Writable: true},
			{Name: "summary", Kind: KindText, Writable: true},
			{Name: "body", Kind: KindText, Writable: true},
			{Name: "sort_order", Kind: KindInt, Writable: true},
			{Name: "published", Kind: KindBool, Writable: true},
			{Name: "created_at", Kind: KindMillis},
			{Name: "updated_at", Kind: KindMillis},
		},
		SlugColumn: "slug",
		OrderBy:    "sort_order ASC, updated_at DESC",
	},
	{
		Name: "gallery_images",
		Columns: []Column{
			{Name: "id", Kind: KindText},
			{Name: "url", Kind: KindText, Required: true, Writable: true},
			{Name: "caption", Kind: KindText, Writable: true},
			{Name: "alt_text", Kind: KindText, Required: true, Writable: true},
			{Name: "sort_order", Kind: KindInt, Writable: true},
			{Name: "published", Kind: KindBool, Writable: true},
			{Name: "created_at", Kind: KindMillis},
			{Name: "updated_at", Kind: KindMillis},
		},
		OrderBy: "sort_order ASC, created_at DESC",
	},
	{
		Name: "log_entries",
		Columns: []Column{
			{Name: "id", Kind: KindText},
			{Name: "slug", Kind: KindText, Required: true, Writable: true},
			{Name: "title", Kind: KindText, Required: true, Writable: true},
			{Name: "body", Kind: KindText, Writable: true},
			{Name: "published", Kind: KindBool, Writable: true},
			{Name: "published_on", Kind: KindMillis},
			{Name: "created_at", Kind: KindMillis},
			{Name: "updated_at", Kind: KindMillis},
		},
		SlugColumn: "slug",
		// The public log is a record: entries are unpublished, never deleted.
		NoDelete: true,
		OrderBy:  "published_on DESC, created_at DESC",
	},
	{
		Name: "canvases",
		Columns: []Column{
			{Name: "id", Kind: KindText},
			{Name: "owner_id", Kind: KindText},
			{Name: "title", Kind: KindText},
			{Name: "created_at", Kind: KindMillis},
			{Name: "updated_at", Kind: KindMillis},
		},
		ReadOnly: true,
		OrderBy:  "updated_at DESC",
	},
	{
		Name: "journeys",
		Columns: []Column{
			{Name: "id", Kind: KindText},
			{Name: "owner_id", Kind: KindText},
			{Name: "title", Kind: KindText},
			{Name: "created_at", Kind: KindMillis},
			{Name: "updated_at", Kind: KindMillis},
		},
		ReadOnly: true,
		OrderBy:  "updated_at DESC",
	},
	{
		Name: "story_maps",
		Columns: []Column{
			{Name: "id", Kind: KindText},
			{Name: "owner_id", Kind: KindText},
			{Name: "title", Kind: KindText},
			{Name: "created_at", Kind: KindMillis},
			{Name: "updated_at", Kind: KindMillis},
		},
		ReadOnly: true,
		OrderBy:  "updated_at DESC",
	},
	{
		Name: "telemetry_events",
		Columns: []Column{
			{Name: "seq", Kind: KindInt},
			{Name: "actor", Kind: KindText},
			{Name: "event_name", Kind: KindText},
			{Name: "entity_type", Kind: KindText},
			{Name: "entity_id", Kind: KindText},
			{Name: "summary", Kind: KindText},
			{Name: "created_at", Kind: KindMillis},
		},
		ReadOnly: true,
		OrderBy:  "seq DESC",
	},
}

// Tables returns the proxy allow list.
func Tables() []Table {
	return tables
}

func tableByName(name string) (Table, error) {
	name = strings.TrimSpace(name)
	for _, table := range tables {
		if table.Name == name {
			return table, nil
		}
	}
	return Table{}, apperrors.WithMetadata(
		apperrors.CodeTableNotAllowed,
		fmt.Sprintf("table %q is not exposed", name),
		map[string]string{"table": name},
	)
}

func (t Table) column(name string) (Column, bool) {
	for _, column := range t.Columns {
		if column.Name == name {
			return column, true
		}
	}
	return Column{}, false
}

func (t Table) columnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, column := range t.Columns {
		names = append(names, column.Name)
	}
	return names
}

// validateValues checks a write payload against the table schema. On create
// every required writable column must be present; on update any subset of
// writable columns is accepted.
func (t Table) validateValues(values map[string]any, create bool) (map[string]any, error) {
	if t.ReadOnly {
		return nil, apperrors.New(apperrors.CodeTableNotAllowed, "table "+t.Name+" is read only")
	}
	if len(values) == 0 {
		return nil, apperrors.New(apperrors.CodePayloadInvalid, "values are required")
	}
	checked := make(map[string]any, len(values))
	for name, value := range values {
		column, ok := t.column(name)
		if !ok || !column.Writable {
			return nil, apperrors.WithMetadata(
				apperrors.CodeFieldNotAllowed,
				fmt.Sprintf("column %q is not writable on %s", name, t.Name),
				map[string]string{"table": t.Name, "column": name},
			)
		}
		coerced, err := coerceValue(column, value)
		if err != nil {
			return nil, err
		}
		checked[name] = coerced
	}
	if create {
		for _, column := range t.Columns {
			if !column.Required {
				continue
			}
			if _, ok := checked[column.Name]; !ok {
				return nil, apperrors.WithMetadata(
					apperrors.CodePayloadInvalid,
					fmt.Sprintf("column %q is required", column.Name),
					map[string]string{"table": t.Name, "column": column.Name},
				)
			}
		}
	}
	return checked, nil
}

// coerceValue maps a decoded JSON value to its SQL representation.
func coerceValue(column Column, value any) (any, error) {
	invalid := func() error {
		return apperrors.WithMetadata(
			apperrors.CodePayloadInvalid,
			fmt.Sprintf("column %q expects a %s value", column.Name, column.Kind),
			map[string]string{"column": column.Name, "kind": string(column.Kind)},
		)
	}
	switch column.Kind {
	case KindText:
		text, ok := value.(string)
		if !ok {
			return nil, invalid()
		}
		return text, nil
	case KindInt, KindMillis:
		number, ok := value.(float64)
		if !ok || number != float64(int64(number)) {
			return nil, invalid()
		}
		return int64(number), nil
	case KindBool:
		flag, ok := value.(bool)
		if !ok {
			return nil, invalid()
		}
		if flag {
			return int64(1), nil
		}
		return int64(0), nil
	default:
		return nil, invalid()
	}
}
