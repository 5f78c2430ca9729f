// Package app assembles and runs the combined server: the public site, the
// admin dashboard, and the proxy API on one listener.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/atelier.studio/internal/platform/timeouts"
	"github.com/louisbranch/atelier.studio/internal/services/api"
	"github.com/louisbranch/atelier.studio/internal/services/server/admin"
	"github.com/louisbranch/atelier.studio/internal/services/server/site"
	"github.com/louisbranch/atelier.studio/internal/storage/sqlite"
	"github.com/louisbranch/atelier.studio/internal/studio"
	"github.com/louisbranch/atelier.studio/internal/telemetry"
)

// Config holds the server assembly configuration.
type Config struct {
	HTTPAddr string
	DBPath   string
	Admin    admin.Config
}

// Server hosts the public site, dashboard, and proxy API.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	store      *sqlite.Store
}

// New creates a configured server listening on cfg.HTTPAddr.
func New(cfg Config) (*Server, error) {
	store, err := openStudioStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	svc := studio.NewService(store, telemetry.NewEmitter(store))

	listener, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("listen on %s: %w", cfg.HTTPAddr, err)
	}

	mux := http.NewServeMux()
	site.New(svc).RegisterRoutes(mux)
	admin.New(svc, cfg.Admin, nil).RegisterRoutes(mux)

	tokenCfg, err := api.LoadTokenConfigFromEnv(time.Now)
	if err != nil {
		log.Printf("proxy API disabled: %v", err)
	} else {
		api.NewServer(store, tokenCfg).RegisterRoutes(mux)
	}

	return &Server{
		listener:   listener,
		httpServer: &http.Server{Handler: mux, ReadHeaderTimeout: timeouts.ReadHeader},
		store:      store,
	}, nil
}

// Addr returns the listener address.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a server until the context ends.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the server and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.closeStore()

	log.Printf("server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
		err := <-serveErr
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve HTTP: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve HTTP: %w", err)
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
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open studio sqlite store: %w", err)
	}
	return store, nil
}

func (s *Server) closeStore() {
	if s == nil || s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		log.Printf("close studio store: %v", err)
	}
}
