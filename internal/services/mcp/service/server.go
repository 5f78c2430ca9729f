// Package service hosts the MCP server over the studio application service.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/atelier.studio/internal/platform/branding"
	"github.com/louisbranch/atelier.studio/internal/services/mcp/domain"
	"github.com/louisbranch/atelier.studio/internal/storage/sqlite"
	"github.com/louisbranch/atelier.studio/internal/studio"
	"github.com/louisbranch/atelier.studio/internal/telemetry"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// serverVersion identifies the MCP server version.
const serverVersion = "0.1.0"

// serverName identifies this MCP server to clients.
var serverName = branding.AppName + " MCP"

const shutdownTimeout = 5 * time.Second

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP serves MCP over streamable HTTP for remote clients.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	DBPath    string
	Transport TransportKind
	HTTPAddr  string
}

// Server hosts the MCP server and owns its store.
type Server struct {
	mcpServer *mcp.Server
	store     *sqlite.Store
}

// New opens the studio store at dbPath and registers every studio tool.
func New(dbPath string) (*Server, error) {
	store, err := openStudioStore(dbPath)
	if err != nil {
		return nil, err
	}
	svc := studio.NewService(store, telemetry.NewEmitter(store))
	return &Server{mcpServer: newMCPServer(svc), store: store}, nil
}

// newMCPServer binds the studio tool handlers to a fresh MCP server.
func newMCPServer(svc *studio.Service) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{
		Instructions: "Tools for working on the studio's business model canvases, value proposition fit, and public log.",
	})

	mcp.AddTool(server, domain.CanvasListTool(), domain.CanvasListHandler(svc))
	mcp.AddTool(server, domain.CanvasGetTool(), domain.CanvasGetHandler(svc))
	mcp.AddTool(server, domain.CanvasItemAddTool(), domain.CanvasItemAddHandler(svc))
	mcp.AddTool(server, domain.CanvasItemUpdateTool(), domain.CanvasItemUpdateHandler(svc))
	mcp.AddTool(server, domain.CanvasItemRemoveTool(), domain.CanvasItemRemoveHandler(svc))
	mcp.AddTool(server, domain.ValueMapListTool(), domain.ValueMapListHandler(svc))
	mcp.AddTool(server, domain.FitReportTool(), domain.FitReportHandler(svc))
	mcp.AddTool(server, domain.LogEntryCreateTool(), domain.LogEntryCreateHandler(svc))

	return server
}

// Close releases the store held by the server.
func (s *Server) Close() error {
	if s == nil || s.store == nil {
		return nil
	}
	if err := s.store.Close(); err != nil {
		return err
	}
	s.store = nil
	return nil
}

// Run is the service entrypoint for MCP and blocks until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	server, err := New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := server.Close(); err != nil {
			log.Printf("close studio store: %v", err)
		}
	}()

	switch cfg.Transport {
	case TransportStdio:
		return server.mcpServer.Run(ctx, &mcp.StdioTransport{})
	case TransportHTTP:
		return server.serveHTTP(ctx, cfg.HTTPAddr)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// serveHTTP exposes the MCP server over streamable HTTP until ctx ends.
func (s *Server) serveHTTP(ctx context.Context, addr string) error {
	if addr == "" {
		addr = "localhost:8085"
	}

	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)

	mux := http.NewServeMux()
	mux.Handle("/mcp", handler)
	mux.HandleFunc("/up", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	httpServer := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("MCP HTTP server listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown MCP HTTP server: %w", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}

// openStudioStore opens the shared content database, creating its directory
// on first run.
func openStudioStore(path string) (*sqlite.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = filepath.Join("data", "studio.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory %s: %w", dir, err)
		}
	}
	return sqlite.Open(path)
}
