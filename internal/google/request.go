package google

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// OOBRedirectURL is the out-of-band redirect target. Google shows the code
// to the user instead of redirecting.
const OOBRedirectURL = "urn:ietf:wg:oauth:2.0:oob"

// AuthRequest is an immutable authorization request: client identity,
// scope set and redirect target. The With methods return modified copies.
type AuthRequest struct {
	clientID     string
	clientSecret string
	scopes       []string
	redirectURL  string
	endpoint     oauth2.Endpoint
	offline      bool
}

// NewAuthRequest builds a request for the given scopes. Scopes are
// deduplicated keeping first-seen order, and blank entries are dropped.
func NewAuthRequest(clientID, clientSecret string, scopes ...string) (AuthRequest, error) {
	if strings.TrimSpace(clientID) == "" {
		return AuthRequest{}, errors.New("client ID is required")
	}

	seen := make(map[string]struct{}, len(scopes))
	unique := make([]string, 0, len(scopes))
	for _, s := range scopes {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		unique = append(unique, s)
	}
	if len(unique) == 0 {
		return AuthRequest{}, errors.New("at least one scope is required")
	}

	return AuthRequest{
		clientID:     clientID,
		clientSecret: clientSecret,
		scopes:       unique,
		redirectURL:  OOBRedirectURL,
		endpoint:     google.Endpoint,
	}, nil
}

// ClientID returns the OAuth client ID.
func (r AuthRequest) ClientID() string { return r.clientID }

// Scopes returns a copy of the deduplicated scope set.
func (r AuthRequest) Scopes() []string {
	return append([]string(nil), r.scopes...)
}

// RedirectURL returns the redirect target.
func (r AuthRequest) RedirectURL() string { return r.redirectURL }

// WithRedirectURL returns a copy targeting redirectURL.
func (r AuthRequest) WithRedirectURL(redirectURL string) AuthRequest {
	r.redirectURL = redirectURL
	return r
}

// WithEndpoint returns a copy using a non-Google authorization server.
func (r AuthRequest) WithEndpoint(endpoint oauth2.Endpoint) AuthRequest {
	r.endpoint = endpoint
	return r
}

// WithOfflineAccess returns a copy that asks for a refresh token.
func (r AuthRequest) WithOfflineAccess(offline bool) AuthRequest {
	r.offline = offline
	return r
}

// Config returns a fresh oauth2.Config for the request.
func (r AuthRequest) Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     r.clientID,
		ClientSecret: r.clientSecret,
		Endpoint:     r.endpoint,
		RedirectURL:  r.redirectURL,
		Scopes:       r.Scopes(),
	}
}

// AuthCodeURL builds the consent URL carrying state.
func (r AuthRequest) AuthCodeURL(state string) string {
	access := oauth2.AccessTypeOnline
	if r.offline {
		access = oauth2.AccessTypeOffline
	}
	return r.Config().AuthCodeURL(state, access)
}

// Exchange trades an authorization code for a token at the token endpoint.
// Every failure matches ErrAuthorization and no token is returned.
func (r AuthRequest) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: empty authorization code", ErrAuthorization)
	}

	tok, err := r.Config().Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: token exchange: %w", ErrAuthorization, err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("%w: token endpoint returned no access token", ErrAuthorization)
	}
	return tok, nil
}
