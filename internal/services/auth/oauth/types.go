package oauth

import "time"

// AuthorizationRequest captures the query parameters of an /authorize call.
type AuthorizationRequest struct {
	ResponseType        string
	ClientID            string
	RedirectURI         string
	Scope               string
	State               string
	CodeChallenge       string
	CodeChallengeMethod string
}

// PendingAuthorization tracks an in-flight authorization awaiting login and
// consent. UserID stays empty until the resource owner authenticates.
type PendingAuthorization struct {
	ID        string
	Request   AuthorizationRequest
	UserID    string
	ExpiresAt time.Time
}

// AuthorizationCode is a single-use grant exchanged at the token endpoint.
type AuthorizationCode struct {
	Code                string
	ClientID            string
	UserID              string
	RedirectURI         string
	CodeChallenge       string
	CodeChallengeMethod string
	Scope               string
	State               string
	ExpiresAt           time.Time
	Used                bool
}

// AccessToken is an opaque bearer token issued to a client.
type AccessToken struct {
	Token     string
	ClientID  string
	UserID    string
	Scope     string
	ExpiresAt time.Time
}

// OAuthUser holds the credential record for a local user.
type OAuthUser struct {
	UserID       string
	Username     string
	PasswordHash string
	DisplayName  string
}
