package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := New(CodeConflict, "stale write")
	if !stderrors.Is(err, New(CodeConflict, "other message")) {
		t.Fatal("expected errors with the same code to match")
	}
	if stderrors.Is(err, New(CodeNotFound, "stale write")) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(CodeDatabase, "update canvas", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause in chain")
	}
	if err.Error() != "update canvas" {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", New(CodeBlockItemNotFound, "missing item"))
	if got := CodeOf(wrapped); got != CodeBlockItemNotFound {
		t.Fatalf("CodeOf = %q, want %q", got, CodeBlockItemNotFound)
	}
	if got := CodeOf(fmt.Errorf("plain")); got != CodeUnknown {
		t.Fatalf("CodeOf plain error = %q, want %q", got, CodeUnknown)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeBlockBadReorder, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeAccessDenied, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeBlockItemNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeContentSlugTaken, http.StatusConflict},
		{CodeDatabase, http.StatusInternalServerError},
		{CodeUnknown, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := tc.code.HTTPStatus(); got != tc.want {
			t.Fatalf("%s.HTTPStatus() = %d, want %d", tc.code, got, tc.want)
		}
	}
}

func TestResultCodeCollapse(t *testing.T) {
	cases := []struct {
		code Code
		want Code
	}{
		{CodeBlockItemEmptyContent, CodeValidation},
		{CodeJourneyStageNotFound, CodeNotFound},
		{CodeContentSlugTaken, CodeConflict},
		{CodeUnknown, CodeDatabase},
	}
	for _, tc := range cases {
		if got := tc.code.ResultCode(); got != tc.want {
			t.Fatalf("%s.ResultCode() = %s, want %s", tc.code, got, tc.want)
		}
	}
}
