package api

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
)

// tokenEnv holds raw env values before post-parse validation.
type tokenEnv struct {
	Issuer    string `env:"ATELIER_STUDIO_API_TOKEN_ISSUER"`
	Audience  string `env:"ATELIER_STUDIO_API_TOKEN_AUDIENCE"`
	PublicKey string `env:"ATELIER_STUDIO_API_TOKEN_PUBLIC_KEY"`
}

// TokenConfig defines how proxy bearer tokens are verified.
type TokenConfig struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

// TokenClaims captures the validated identity of a proxy caller.
type TokenClaims struct {
	Subject   string
	Scope     string
	ExpiresAt time.Time
}

// apiClaims is the internal claims type used for JWT parsing.
type apiClaims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope"`
}

// LoadTokenConfigFromEnv reads bearer token verification configuration.
func LoadTokenConfigFromEnv(now func() time.Time) (TokenConfig, error) {
	var raw tokenEnv
	if err := env.Parse(&raw); err != nil {
		return TokenConfig{}, fmt.Errorf("parse api token env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	publicKey := strings.TrimSpace(raw.PublicKey)
	if issuer == "" {
		return TokenConfig{}, fmt.Errorf("ATELIER_STUDIO_API_TOKEN_ISSUER is required")
	}
	if audience == "" {
		return TokenConfig{}, fmt.Errorf("ATELIER_STUDIO_API_TOKEN_AUDIENCE is required")
	}
	if publicKey == "" {
		return TokenConfig{}, fmt.Errorf("ATELIER_STUDIO_API_TOKEN_PUBLIC_KEY is required")
	}
	keyBytes, err := decodeBase64(publicKey)
	if err != nil {
		return TokenConfig{}, fmt.Errorf("decode api token public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return TokenConfig{}, fmt.Errorf("api token public key must be %d bytes", ed25519.PublicKeySize)
	}
	if now == nil {
		now = time.Now
	}
	return TokenConfig{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PublicKey(keyBytes),
		Now:      now,
	}, nil
}

// VerifyToken checks an Ed25519-signed bearer token and returns its claims.
func VerifyToken(token string, cfg TokenConfig) (TokenClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return TokenClaims{}, apperrors.New(apperrors.CodeUnauthorized, "bearer token is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Issuer == "" || cfg.Audience == "" || len(cfg.Key) != ed25519.PublicKeySize {
		return TokenClaims{}, errors.New("api token verifier is not configured")
	}

	var parsed apiClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(token *jwt.Token) (any, error) {
		return cfg.Key, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return TokenClaims{}, mapJWTError(err)
	}

	if parsed.Issuer == "" || parsed.Issuer != cfg.Issuer {
		return TokenClaims{}, apperrors.New(apperrors.CodeUnauthorized, "token issuer mismatch")
	}
	if !audienceContains(parsed.Audience, cfg.Audience) {
		return TokenClaims{}, apperrors.New(apperrors.CodeUnauthorized, "token audience mismatch")
	}
	if strings.TrimSpace(parsed.Subject) == "" {
		return TokenClaims{}, apperrors.New(apperrors.CodeUnauthorized, "token sub is required")
	}
	if parsed.ExpiresAt == nil {
		return TokenClaims{}, apperrors.New(apperrors.CodeUnauthorized, "token exp is required")
	}

	now := cfg.Now().UTC()
	exp := parsed.ExpiresAt.Time.UTC()
	if !exp.After(now) {
		return TokenClaims{}, apperrors.New(apperrors.CodeUnauthorized, "token is expired")
	}
	if parsed.NotBefore != nil && now.Before(parsed.NotBefore.Time.UTC()) {
		return TokenClaims{}, apperrors.New(apperrors.CodeUnauthorized, "token not active yet")
	}

	return TokenClaims{
		Subject:   parsed.Subject,
		Scope:     parsed.Scope,
		ExpiresAt: exp,
	}, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrEd25519Verification) {
		return apperrors.New(apperrors.CodeUnauthorized, "token signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.New(apperrors.CodeUnauthorized, "token alg is invalid")
	}
	return apperrors.New(apperrors.CodeUnauthorized, "token is invalid")
}

// audienceContains reports whether the audience list contains the given value.
func audienceContains(aud jwt.ClaimStrings, value string) bool {
	for _, item := range aud {
		if item == value {
			return true
		}
	}
	return false
}

func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
