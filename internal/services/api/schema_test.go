package api

import (
	"testing"

	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
)

func TestTableByNameRejectsUnknownTable(t *testing.T) {
	_, err := tableByName("sqlite_master")
	if err == nil {
		t.Fatal("expected unknown table to be rejected")
	}
	if apperrors.CodeOf(err) != apperrors.CodeTableNotAllowed {
		t.Fatalf("expected TABLE_NOT_ALLOWED, got %v", apperrors.CodeOf(err))
	}
}

func TestValidateValuesCreate(t *testing.T) {
	table := projectsTable(t)

	values, err := table.validateValues(map[string]any{
		"slug":       "atlas-rebrand",
		"title":      "Atlas Rebrand",
		"published":  true,
		"sort_order": float64(3),
	}, true)
	if err != nil {
		t.Fatalf("validate values: %v", err)
	}
	if values["published"] != int64(1) {
		t.Fatalf("expected bool to coerce to 1, got %v", values["published"])
	}
	if values["sort_order"] != int64(3) {
		t.Fatalf("expected int64 sort order, got %v", values["sort_order"])
	}
}

func TestValidateValuesMissingRequired(t *testing.T) {
	table := projectsTable(t)

	_, err := table.validateValues(map[string]any{"title": "No Slug"}, true)
	if err == nil {
		t.Fatal("expected missing slug to be rejected")
	}
	if apperrors.CodeOf(err) != apperrors.CodePayloadInvalid {
		t.Fatalf("expected PAYLOAD_INVALID, got %v", apperrors.CodeOf(err))
	}
}

func TestValidateValuesRejectsNonWritableColumn(t *testing.T) {
	table := projectsTable(t)

	_, err := table.validateValues(map[string]any{"id": "custom-id"}, false)
	if err == nil {
		t.Fatal("expected id write to be rejected")
	}
	if apperrors.CodeOf(err) != apperrors.CodeFieldNotAllowed {
		t.Fatalf("expected FIELD_NOT_ALLOWED, got %v", apperrors.CodeOf(err))
	}
}

func TestValidateValuesRejectsWrongKind(t *testing.T) {
	table := projectsTable(t)

	_, err := table.validateValues(map[string]any{"sort_order": "three"}, false)
	if err == nil {
		t.Fatal("expected kind mismatch to be rejected")
	}
}

func TestValidateValuesRejectsReadOnlyTable(t *testing.T) {
	table, err := tableByName("telemetry_events")
	if err != nil {
		t.Fatalf("telemetry table: %v", err)
	}
	if _, err := table.validateValues(map[string]any{"summary": "x"}, false); err == nil {
		t.Fatal("expected read-only table writes to be rejected")
	}
}
