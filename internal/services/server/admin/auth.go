package admin

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/louisbranch/atelier.studio/internal/platform/requestctx"
	"github.com/louisbranch/atelier.studio/internal/platform/timeouts"
	"github.com/louisbranch/atelier.studio/internal/services/auth/oauth"
	"github.com/louisbranch/atelier.studio/internal/services/server/sessioncookie"
)

// Identity is the introspection result for an admin session token.
type Identity struct {
	Active bool
	UserID string
	Scope  string
}

// Introspector resolves an access token to the operator who holds it.
type Introspector interface {
	Introspect(ctx context.Context, token string) (Identity, error)
}

// Config wires the dashboard to its OAuth authorization server.
type Config struct {
	// AuthURL is the base URL of the auth service, e.g. http://localhost:8084.
	AuthURL string
	// ClientID and ClientSecret identify the dashboard client.
	ClientID     string
	ClientSecret string
	// RedirectURL is this server's /admin/oauth/callback as seen by browsers.
	RedirectURL string
	// ResourceSecret authorizes introspection calls.
	ResourceSecret string
}

// HTTPIntrospector introspects tokens over the auth service HTTP endpoint.
type HTTPIntrospector struct {
	AuthURL        string
	ResourceSecret string
	Client         *http.Client
}

// Introspect posts the token to the introspection endpoint.
func (i *HTTPIntrospector) Introspect(ctx context.Context, token string) (Identity, error) {
	form := url.Values{"token": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(i.AuthURL, "/")+"/introspect", strings.NewReader(form.Encode()))
	if err != nil {
		return Identity{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Resource-Secret", i.ResourceSecret)

	client := i.Client
	if client == nil {
		client = &http.Client{Timeout: timeouts.Introspect}
	}
	resp, err := client.Do(req)
	if err != nil {
		return Identity{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Identity{}, fmt.Errorf("introspection returned status %d", resp.StatusCode)
	}

	var payload struct {
		Active bool   `json:"active"`
		Scope  string `json:"scope"`
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Identity{}, err
	}
	return Identity{Active: payload.Active, UserID: payload.UserID, Scope: payload.Scope}, nil
}

// oauthStateCookie holds the state and PKCE verifier between the authorize
// redirect and the callback.
const oauthStateCookie = "studio_oauth_state"

func (a *Admin) handleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := randomToken(16)
	if err != nil {
		http.Error(w, "login unavailable", http.StatusInternalServerError)
		return
	}
	verifier, err := randomToken(32)
	if err != nil {
		http.Error(w, "login unavailable", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state + "|" + verifier,
		Path:     "/admin",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600,
	})

	authorize := strings.TrimRight(a.cfg.AuthURL, "/") + "/authorize?" + url.Values{
		"response_type":         {"code"},
		"client_id":             {a.cfg.ClientID},
		"redirect_uri":          {a.cfg.RedirectURL},
		"scope":                 {"studio"},
		"state":                 {state},
		"code_challenge":        {oauth.ComputeS256Challenge(verifier)},
		"code_challenge_method": {"S256"},
	}.Encode()
	http.Redirect(w, r, authorize, http.StatusFound)
}

func (a *Admin) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	if errCode := r.URL.Query().Get("error"); errCode != "" {
		http.Error(w, "sign-in was denied", http.StatusForbidden)
		return
	}

	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil {
		http.Redirect(w, r, "/admin/login", http.StatusFound)
		return
	}
	state, verifier, ok := strings.Cut(cookie.Value, "|")
	if !ok || state == "" || verifier == "" || r.URL.Query().Get("state") != state {
		http.Error(w, "state mismatch", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Path: "/admin", MaxAge: -1})

	token, err := a.exchangeCode(r.Context(), r.URL.Query().Get("code"), verifier)
	if err != nil {
		log.Printf("token exchange failed: %v", err)
		http.Error(w, "sign-in failed", http.StatusBadGateway)
		return
	}

	sessioncookie.Write(w, r, token)
	http.Redirect(w, r, "/admin", http.StatusFound)
}

func (a *Admin) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := sessioncookie.Read(r); ok {
		a.revokeToken(r.Context(), token)
	}
	sessioncookie.Clear(w, r)
	http.Redirect(w, r, "/", http.StatusFound)
}

// exchangeCode redeems an authorization code for an access token.
func (a *Admin) exchangeCode(ctx context.Context, code, verifier string) (string, error) {
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {a.cfg.RedirectURL},
		"client_id":     {a.cfg.ClientID},
		"code_verifier": {verifier},
	}
	if a.cfg.ClientSecret != "" {
		form.Set("client_secret", a.cfg.ClientSecret)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(a.cfg.AuthURL, "/")+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}
	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned no access token")
	}
	return payload.AccessToken, nil
}

// revokeToken best-effort revokes the session token on logout.
func (a *Admin) revokeToken(ctx context.Context, token string) {
	form := url.Values{
		"token":     {token},
		"client_id": {a.cfg.ClientID},
	}
	if a.cfg.ClientSecret != "" {
		form.Set("client_secret", a.cfg.ClientSecret)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(a.cfg.AuthURL, "/")+"/revoke", strings.NewReader(form.Encode()))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := a.httpClient.Do(req)
	if err != nil {
		log.Printf("token revocation failed: %v", err)
		return
	}
	resp.Body.Close()
}

// requireSession introspects the session cookie and stamps the operator onto
// the request context. Browsers without a live session go to login.
func (a *Admin) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := sessioncookie.Read(r)
		if !ok {
			a.rejectUnauthenticated(w, r)
			return
		}
		identity, err := a.introspector.Introspect(r.Context(), token)
		if err != nil {
			log.Printf("introspection failed: %v", err)
			http.Error(w, "session check unavailable", http.StatusBadGateway)
			return
		}
		if !identity.Active {
			sessioncookie.Clear(w, r)
			a.rejectUnauthenticated(w, r)
			return
		}
		next(w, r.WithContext(requestctx.WithUserID(r.Context(), identity.UserID)))
	}
}

// rejectUnauthenticated redirects page loads and 401s JSON actions.
func (a *Admin) rejectUnauthenticated(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/admin/actions/") || strings.HasPrefix(r.URL.Path, "/admin/feed/") {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	http.Redirect(w, r, "/admin/login", http.StatusFound)
}

func randomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
