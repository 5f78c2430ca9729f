package oauth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/atelier.studio/internal/platform/id"
	"golang.org/x/crypto/bcrypt"
)

// Server hosts the OAuth endpoints.
type Server struct {
	config Config
	store  *Store
	clock  func() time.Time
}

// NewServer builds an OAuth server bound to its config and backing store.
func NewServer(config Config, store *Store) *Server {
	return &Server{
		config: config,
		store:  store,
		clock:  time.Now,
	}
}

// RegisterRoutes registers OAuth HTTP endpoints on the provided mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	if mux == nil {
		return
	}
	mux.HandleFunc("/authorize", s.handleAuthorize)
	mux.HandleFunc("/authorize/login", s.handleLogin)
	mux.HandleFunc("/authorize/consent", s.handleConsent)
	mux.HandleFunc("/token", s.handleToken)
	mux.HandleFunc("/introspect", s.handleIntrospect)
	mux.HandleFunc("/revoke", s.handleRevoke)
	mux.HandleFunc("/.well-known/oauth-authorization-server", s.handleMetadata)
	mux.HandleFunc("/up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

// SeedBootstrapUsers upserts the configured local users with bcrypt hashes.
func (s *Server) SeedBootstrapUsers() error {
	if s == nil || s.store == nil {
		return nil
	}
	for _, bootstrap := range s.config.BootstrapUsers {
		username := strings.TrimSpace(bootstrap.Username)
		password := strings.TrimSpace(bootstrap.Password)
		displayName := strings.TrimSpace(bootstrap.DisplayName)
		if username == "" || password == "" {
			continue
		}
		if displayName == "" {
			displayName = username
		}
		existing, err := s.store.GetOAuthUserByUsername(username)
		if err != nil {
			return fmt.Errorf("lookup oauth user: %w", err)
		}
		userID := ""
		if existing != nil {
			userID = existing.UserID
		}
		if userID == "" {
			userID, err = id.NewID()
			if err != nil {
				return fmt.Errorf("mint oauth user id: %w", err)
			}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash oauth password: %w", err)
		}
		user := OAuthUser{
			UserID:       userID,
			Username:     username,
			PasswordHash: string(hash),
			DisplayName:  displayName,
		}
		if err := s.store.UpsertOAuthUser(user, s.clock().UTC()); err != nil {
			return fmt.Errorf("store oauth credentials: %w", err)
		}
	}
	return nil
}

// StartCleanup starts periodic expiry cleanup for transient OAuth artifacts.
//
// This keeps short-lived authorization and pending login records from
// accumulating without requiring a separate maintenance process.
func (s *Server) StartCleanup(ctx context.Context, interval time.Duration) {
	if s == nil || s.store == nil || interval <= 0 {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.store.CleanupExpired(s.clock().UTC())
			}
		}
	}()
}
