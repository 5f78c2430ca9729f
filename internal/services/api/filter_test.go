package api

import (
	"testing"

	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
)

func projectsTable(t *testing.T) Table {
	t.Helper()
	table, err := tableByName("projects")
	if err != nil {
		t.Fatalf("projects table: %v", err)
	}
	return table
}

func TestParseFilterEquality(t *testing.T) {
	condition, err := parseFilter(projectsTable(t), `slug = "atlas-rebrand"`)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if condition.Clause != "slug = ?" {
		t.Fatalf("unexpected clause %q", condition.Clause)
	}
	if len(condition.Params) != 1 || condition.Params[0] != "atlas-rebrand" {
		t.Fatalf("unexpected params %+v", condition.Params)
	}
}

func TestParseFilterLogicalAndBool(t *testing.T) {
	condition, err := parseFilter(projectsTable(t), `published = true AND sort_order < 10`)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if condition.Clause != "(published = ? AND sort_order < ?)" {
		t.Fatalf("unexpected clause %q", condition.Clause)
	}
	if len(condition.Params) != 2 {
		t.Fatalf("expected 2 params, got %+v", condition.Params)
	}
	if condition.Params[0] != int64(1) {
		t.Fatalf("expected boolean true to map to 1, got %v", condition.Params[0])
	}
	if condition.Params[1] != int64(10) {
		t.Fatalf("expected int param 10, got %v", condition.Params[1])
	}
}

func TestParseFilterRejectsUnknownField(t *testing.T) {
	_, err := parseFilter(projectsTable(t), `secret = "x"`)
	if err == nil {
		t.Fatal("expected unknown field to be rejected")
	}
	if apperrors.CodeOf(err) != apperrors.CodeFilterInvalid {
		t.Fatalf("expected FILTER_INVALID, got %v", apperrors.CodeOf(err))
	}
}

func TestParseFilterEmptyIsNoCondition(t *testing.T) {
	condition, err := parseFilter(projectsTable(t), "  ")
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if condition.Clause != "" || len(condition.Params) != 0 {
		t.Fatalf("expected empty condition, got %+v", condition)
	}
}

func TestResolveOrderBy(t *testing.T) {
	table := projectsTable(t)

	orderBy, err := resolveOrderBy(table, "")
	if err != nil {
		t.Fatalf("default order: %v", err)
	}
	if orderBy != table.OrderBy {
		t.Fatalf("expected default ordering, got %q", orderBy)
	}

	orderBy, err = resolveOrderBy(table, "title desc, sort_order")
	if err != nil {
		t.Fatalf("custom order: %v", err)
	}
	if orderBy != "title DESC, sort_order ASC" {
		t.Fatalf("unexpected ordering %q", orderBy)
	}

	if _, err := resolveOrderBy(table, "password desc"); err == nil {
		t.Fatal("expected unknown order column to be rejected")
	}
}
