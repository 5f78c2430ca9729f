// Package oauth implements the browser-facing OAuth 2.0 authorization
// server used by the admin UI and MCP clients.
//
// It keeps redirect/state/token choreography in one place so the rest of
// the studio only ever sees opaque bearer tokens and introspection results.
package oauth
