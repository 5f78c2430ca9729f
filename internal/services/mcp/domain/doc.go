// Package domain defines the MCP tool schemas and handlers for the studio.
// Each tool pairs a typed input/output struct with a handler bound to the
// studio application service, so assistants mutate canvases and content
// through the same invariants the admin UI enforces.
package domain
