package api

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/louisbranch/atelier.studio/internal/storage/sqlite"
)

type testHarness struct {
	mux   *http.ServeMux
	key   ed25519.PrivateKey
	token string
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "studio.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	public, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	server := NewServer(store, TokenConfig{
		Issuer:   "https://auth.atelier.test",
		Audience: "studio-api",
		Key:      public,
	})
	mux := http.NewServeMux()
	server.RegisterRoutes(mux)

	h := &testHarness{mux: mux, key: private}
	h.token = h.signToken(t, time.Now().Add(time.Hour))
	return h
}

func (h *testHarness) signToken(t *testing.T, expires time.Time) string {
	t.Helper()
	claims := apiClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://auth.atelier.test",
			Audience:  jwt.ClaimStrings{"studio-api"},
			Subject:   "admin",
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        "token-1",
		},
		Scope: "studio",
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(h.key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func (h *testHarness) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+h.token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.mux.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v, body: %s", err, rec.Body.String())
	}
	return env
}

func createProject(t *testing.T, h *testHarness, slug, title string) (string, int64) {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/api/tables/projects/rows", map[string]any{
		"values": map[string]any{"slug": slug, "title": title, "published": true},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID        string `json:"id"`
		UpdatedAt int64  `json:"updated_at"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &created); err != nil {
		t.Fatalf("decode create data: %v", err)
	}
	return created.ID, created.UpdatedAt
}

func TestProxyRequiresBearerToken(t *testing.T) {
	h := newTestHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/api/tables", nil)
	rec := httptest.NewRecorder()
	h.mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Code != "UNAUTHORIZED" {
		t.Fatalf("expected UNAUTHORIZED envelope, got %+v", env)
	}
}

func TestProxyRejectsExpiredToken(t *testing.T) {
	h := newTestHarness(t)
	h.token = h.signToken(t, time.Now().Add(-time.Minute))

	rec := h.do(t, http.MethodGet, "/api/tables", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", rec.Code)
	}
}

func TestProxyListTables(t *testing.T) {
	h := newTestHarness(t)

	rec := h.do(t, http.MethodGet, "/api/tables", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list tables status = %d", rec.Code)
	}
	var data struct {
		Tables []Table `json:"tables"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &data); err != nil {
		t.Fatalf("decode tables: %v", err)
	}
	if len(data.Tables) == 0 {
		t.Fatal("expected at least one allow-listed table")
	}
}

func TestProxyCreateQueryGetRoundTrip(t *testing.T) {
	h := newTestHarness(t)

	id, _ := createProject(t, h, "atlas-rebrand", "Atlas Rebrand")
	createProject(t, h, "field-notes", "Field Notes")

	rec := h.do(t, http.MethodPost, "/api/tables/projects/query", map[string]any{
		"filter": `slug = "atlas-rebrand"`,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("query status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var page struct {
		Rows          []map[string]any `json:"rows"`
		NextPageToken string           `json:"next_page_token"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &page); err != nil {
		t.Fatalf("decode query data: %v", err)
	}
	if len(page.Rows) != 1 {
		t.Fatalf("expected one filtered row, got %d", len(page.Rows))
	}
	if page.Rows[0]["id"] != id {
		t.Fatalf("expected row %s, got %v", id, page.Rows[0]["id"])
	}

	rec = h.do(t, http.MethodGet, "/api/tables/projects/rows/atlas-rebrand", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get by slug status = %d", rec.Code)
	}
	var fetched struct {
		Row map[string]any `json:"row"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &fetched); err != nil {
		t.Fatalf("decode get data: %v", err)
	}
	if fetched.Row["title"] != "Atlas Rebrand" {
		t.Fatalf("unexpected row %+v", fetched.Row)
	}
}

func TestProxyPagination(t *testing.T) {
	h := newTestHarness(t)

	createProject(t, h, "one", "One")
	createProject(t, h, "two", "Two")
	createProject(t, h, "three", "Three")

	rec := h.do(t, http.MethodPost, "/api/tables/projects/query", map[string]any{"page_size": 2})
	var first struct {
		Rows          []map[string]any `json:"rows"`
		NextPageToken string           `json:"next_page_token"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &first); err != nil {
		t.Fatalf("decode first page: %v", err)
	}
	if len(first.Rows) != 2 || first.NextPageToken == "" {
		t.Fatalf("expected full first page with token, got %d rows", len(first.Rows))
	}

	rec = h.do(t, http.MethodPost, "/api/tables/projects/query", map[string]any{
		"page_size":  2,
		"page_token": first.NextPageToken,
	})
	var second struct {
		Rows          []map[string]any `json:"rows"`
		NextPageToken string           `json:"next_page_token"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &second); err != nil {
		t.Fatalf("decode second page: %v", err)
	}
	if len(second.Rows) != 1 || second.NextPageToken != "" {
		t.Fatalf("expected final page of one row, got %d rows token %q", len(second.Rows), second.NextPageToken)
	}
}

func TestProxyPageTokenBoundToFilter(t *testing.T) {
	h := newTestHarness(t)

	createProject(t, h, "one", "One")
	createProject(t, h, "two", "Two")

	rec := h.do(t, http.MethodPost, "/api/tables/projects/query", map[string]any{
		"filter":    `published = true`,
		"page_size": 1,
	})
	var page struct {
		NextPageToken string `json:"next_page_token"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}

	rec = h.do(t, http.MethodPost, "/api/tables/projects/query", map[string]any{
		"filter":     `published = false`,
		"page_token": page.NextPageToken,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected reused token with new filter to fail, got %d", rec.Code)
	}
}

func TestProxyUpdateOptimisticLock(t *testing.T) {
	h := newTestHarness(t)

	id, updatedAt := createProject(t, h, "atlas-rebrand", "Atlas Rebrand")

	rec := h.do(t, http.MethodPatch, "/api/tables/projects/rows/"+id, map[string]any{
		"values":     map[string]any{"title": "Atlas Rebrand II"},
		"updated_at": updatedAt,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body: %s", rec.Code, rec.Body.String())
	}

	// Replay with the stale stamp.
	rec = h.do(t, http.MethodPatch, "/api/tables/projects/rows/"+id, map[string]any{
		"values":     map[string]any{"title": "Atlas Rebrand III"},
		"updated_at": updatedAt,
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for stale write, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Code != "CONFLICT" {
		t.Fatalf("expected CONFLICT envelope, got %+v", env)
	}

	rec = h.do(t, http.MethodGet, "/api/tables/projects/rows/"+id, nil)
	var fetched struct {
		Row map[string]any `json:"row"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &fetched); err != nil {
		t.Fatalf("decode get data: %v", err)
	}
	if fetched.Row["title"] != "Atlas Rebrand II" {
		t.Fatalf("expected winning title to survive, got %v", fetched.Row["title"])
	}
}

func TestProxyDeleteThenNotFound(t *testing.T) {
	h := newTestHarness(t)

	id, _ := createProject(t, h, "atlas-rebrand", "Atlas Rebrand")

	rec := h.do(t, http.MethodDelete, "/api/tables/projects/rows/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = h.do(t, http.MethodDelete, "/api/tables/projects/rows/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
}

func TestProxyRefusesLogEntryDelete(t *testing.T) {
	h := newTestHarness(t)

	rec := h.do(t, http.MethodPost, "/api/tables/log_entries/rows", map[string]any{
		"values": map[string]any{"slug": "kiln-notes", "title": "Kiln Notes"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &created); err != nil {
		t.Fatalf("decode create data: %v", err)
	}

	rec = h.do(t, http.MethodDelete, "/api/tables/log_entries/rows/"+created.ID, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 deleting a log entry, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Success {
		t.Fatal("expected a failure envelope for the delete")
	}

	rec = h.do(t, http.MethodGet, "/api/tables/log_entries/rows/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected the entry to survive the delete attempt, got %d", rec.Code)
	}
}

func TestProxyRejectsWritesToReadOnlyTable(t *testing.T) {
	h := newTestHarness(t)

	rec := h.do(t, http.MethodPost, "/api/tables/canvases/rows", map[string]any{
		"values": map[string]any{"title": "Sneaky"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for read-only table write, got %d", rec.Code)
	}
}

func TestProxyRejectsUnknownTable(t *testing.T) {
	h := newTestHarness(t)

	rec := h.do(t, http.MethodPost, "/api/tables/users/query", map[string]any{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown table, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR envelope, got %+v", env)
	}
}
