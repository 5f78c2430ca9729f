package oauth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMetadataUsesConfiguredIssuer(t *testing.T) {
	_, mux := newTestServer(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/.well-known/oauth-authorization-server", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metadata status = %d", rec.Code)
	}

	var metadata AuthorizationServerMetadata
	if err := json.Unmarshal(rec.Body.Bytes(), &metadata); err != nil {
		t.Fatalf("decode metadata: %v", err)
	}
	if metadata.Issuer != "http://auth.test" {
		t.Fatalf("unexpected issuer %q", metadata.Issuer)
	}
	if metadata.AuthorizationEndpoint != "http://auth.test/authorize" {
		t.Fatalf("unexpected authorization endpoint %q", metadata.AuthorizationEndpoint)
	}
	if metadata.RevocationEndpoint != "http://auth.test/revoke" {
		t.Fatalf("unexpected revocation endpoint %q", metadata.RevocationEndpoint)
	}
	if len(metadata.CodeChallengeMethodsSupported) != 1 || metadata.CodeChallengeMethodsSupported[0] != "S256" {
		t.Fatalf("unexpected challenge methods %+v", metadata.CodeChallengeMethodsSupported)
	}
}

func TestMetadataDerivesIssuerFromRequest(t *testing.T) {
	server := NewServer(Config{}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "http://studio.local/.well-known/oauth-authorization-server", nil)
	server.handleMetadata(rec, req)

	var metadata AuthorizationServerMetadata
	if err := json.Unmarshal(rec.Body.Bytes(), &metadata); err != nil {
		t.Fatalf("decode metadata: %v", err)
	}
	if metadata.Issuer != "http://studio.local" {
		t.Fatalf("unexpected derived issuer %q", metadata.Issuer)
	}
}
