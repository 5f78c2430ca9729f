package action

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
)

func TestWriteOK(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteOK(rec, map[string]string{"id": "abc"})

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !envelope.Success || envelope.Data["id"] != "abc" {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
}

func TestWriteErrorMapsResultCodes(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"conflict", apperrors.New(apperrors.CodeConflict, "stale write"), 409, "CONFLICT"},
		{"validation", apperrors.New(apperrors.CodeBlockItemEmptyContent, "content is required"), 400, "VALIDATION_ERROR"},
		{"not found", apperrors.New(apperrors.CodeNotFound, "no such canvas"), 404, "NOT_FOUND"},
		{"unauthorized", apperrors.New(apperrors.CodeUnauthorized, "sign in required"), 401, "UNAUTHORIZED"},
		{"denied", apperrors.New(apperrors.CodeAccessDenied, "not yours"), 403, "ACCESS_DENIED"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		WriteError(rec, tc.err)
		if rec.Code != tc.wantStatus {
			t.Fatalf("%s: expected status %d, got %d", tc.name, tc.wantStatus, rec.Code)
		}
		var envelope struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
			Code    string `json:"code"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("%s: decode envelope: %v", tc.name, err)
		}
		if envelope.Success {
			t.Fatalf("%s: expected failure envelope", tc.name)
		}
		if envelope.Code != tc.wantCode {
			t.Fatalf("%s: expected code %s, got %s", tc.name, tc.wantCode, envelope.Code)
		}
	}
}

func TestWriteErrorHidesDatabaseDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, apperrors.New(apperrors.CodeDatabase, "UNIQUE constraint failed: secrets.id"))

	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Error != "an internal error occurred" {
		t.Fatalf("expected generic message, got %q", envelope.Error)
	}
}
