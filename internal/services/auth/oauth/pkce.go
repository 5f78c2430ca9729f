package oauth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

// Verifier length bounds from RFC 7636 section 4.1.
const (
	minCodeVerifierLength = 43
	maxCodeVerifierLength = 128
)

// ComputeS256Challenge derives the S256 code challenge for a verifier.
func ComputeS256Challenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// ValidatePKCE checks a code verifier against a stored challenge. Only the
// S256 method is accepted; plain is deliberately unsupported.
func ValidatePKCE(verifier, challenge, method string) bool {
	if method != "S256" {
		return false
	}
	if !validCodeVerifier(verifier) || challenge == "" {
		return false
	}
	computed := ComputeS256Challenge(verifier)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(challenge)) == 1
}

// ValidateCodeChallenge reports whether a challenge looks like a base64url
// encoded SHA-256 digest.
func ValidateCodeChallenge(challenge string) bool {
	if len(challenge) != 43 {
		return false
	}
	for i := 0; i < len(challenge); i++ {
		if !isBase64URLChar(challenge[i]) {
			return false
		}
	}
	return true
}

func validCodeVerifier(verifier string) bool {
	if len(verifier) < minCodeVerifierLength || len(verifier) > maxCodeVerifierLength {
		return false
	}
	for i := 0; i < len(verifier); i++ {
		c := verifier[i]
		if isBase64URLChar(c) || c == '.' || c == '~' {
			continue
		}
		return false
	}
	return true
}

func isBase64URLChar(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z':
		return true
	case c >= 'a' && c <= 'z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_':
		return true
	}
	return false
}
