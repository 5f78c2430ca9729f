package oauth

import (
	"encoding/json"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config describes the OAuth server configuration.
type Config struct {
	Issuer                  string
	ResourceSecret          string
	Clients                 []Client
	BootstrapUsers          []BootstrapUser
	TokenTTL                time.Duration
	AuthorizationCodeTTL    time.Duration
	PendingAuthorizationTTL time.Duration
}

// Client represents a registered OAuth client application.
type Client struct {
	ID                      string   `json:"client_id"`
	Secret                  string   `json:"client_secret,omitempty"`
	RedirectURIs            []string `json:"redirect_uris"`
	Name                    string   `json:"client_name,omitempty"`
	TokenEndpointAuthMethod string   `json:"token_endpoint_auth_method,omitempty"`
}

// BootstrapUser seeds a local credentialed user at startup.
type BootstrapUser struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// oauthEnv holds raw env values for OAuth configuration.
type oauthEnv struct {
	Issuer                  string        `env:"ATELIER_STUDIO_OAUTH_ISSUER"`
	ResourceSecret          string        `env:"ATELIER_STUDIO_OAUTH_RESOURCE_SECRET"`
	ClientsJSON             string        `env:"ATELIER_STUDIO_OAUTH_CLIENTS"`
	UsersJSON               string        `env:"ATELIER_STUDIO_OAUTH_USERS"`
	TokenTTL                time.Duration `env:"ATELIER_STUDIO_OAUTH_TOKEN_TTL"   envDefault:"1h"`
	AuthorizationCodeTTL    time.Duration `env:"ATELIER_STUDIO_OAUTH_CODE_TTL"    envDefault:"10m"`
	PendingAuthorizationTTL time.Duration `env:"ATELIER_STUDIO_OAUTH_PENDING_TTL" envDefault:"15m"`
}

// LoadConfigFromEnv loads OAuth server configuration from environment variables.
// Clients and bootstrap users are provided as JSON arrays.
func LoadConfigFromEnv() Config {
	var raw oauthEnv
	if err := env.Parse(&raw); err != nil {
		return Config{
			TokenTTL:                time.Hour,
			AuthorizationCodeTTL:    10 * time.Minute,
			PendingAuthorizationTTL: 15 * time.Minute,
		}
	}

	var clients []Client
	if raw.ClientsJSON != "" {
		if err := json.Unmarshal([]byte(raw.ClientsJSON), &clients); err != nil {
			clients = nil
		}
	}

	var users []BootstrapUser
	if raw.UsersJSON != "" {
		if err := json.Unmarshal([]byte(raw.UsersJSON), &users); err != nil {
			users = nil
		}
	}

	return Config{
		Issuer:                  raw.Issuer,
		ResourceSecret:          raw.ResourceSecret,
		Clients:                 clients,
		BootstrapUsers:          users,
		TokenTTL:                raw.TokenTTL,
		AuthorizationCodeTTL:    raw.AuthorizationCodeTTL,
		PendingAuthorizationTTL: raw.PendingAuthorizationTTL,
	}
}
