package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"golang.org/x/oauth2"
)

// tokenServer is a fake OAuth2 token endpoint. Codes and refresh tokens in
// grants map to the access token returned for them; anything else is
// answered with invalid_grant.
type tokenServer struct {
	*httptest.Server

	mu       sync.Mutex
	grants   map[string]string
	requests int
}

func newTokenServer(t *testing.T, grants map[string]string) *tokenServer {
	t.Helper()

	ts := &tokenServer{grants: grants}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ts.mu.Lock()
		ts.requests++
		key := r.PostForm.Get("code")
		if r.PostForm.Get("grant_type") == "refresh_token" {
			key = r.PostForm.Get("refresh_token")
		}
		access, ok := ts.grants[key]
		ts.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  access,
			"token_type":    "Bearer",
			"expires_in":    3600,
			"refresh_token": "refresh-" + access,
		})
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *tokenServer) endpoint() oauth2.Endpoint {
	return oauth2.Endpoint{
		AuthURL:   ts.URL + "/auth",
		TokenURL:  ts.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
}

func (ts *tokenServer) requestCount() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.requests
}

// fakeReceiver hands out a fixed code.
type fakeReceiver struct {
	redirect string
	code     string
	startErr error
	waitErr  error

	started int
	closed  int
	state   string
}

func (r *fakeReceiver) Flow() string { return "fake" }

func (r *fakeReceiver) Start(_ context.Context, state string) (string, error) {
	r.started++
	r.state = state
	return r.redirect, r.startErr
}

func (r *fakeReceiver) WaitForCode(context.Context) (string, error) {
	return r.code, r.waitErr
}

func (r *fakeReceiver) Close() error {
	r.closed++
	return nil
}

// recordingDeliverer captures delivered URLs instead of showing them.
type recordingDeliverer struct {
	urls []string
}

func (d *recordingDeliverer) Deliver(url string) DeliveryResult {
	d.urls = append(d.urls, url)
	return DeliveryResult{Method: DeliveredPrinted, URL: url}
}

// fakeBrowser is a BrowserOpener with a fixed capability and outcome.
type fakeBrowser struct {
	available bool
	openErr   error
	opened    []string
}

func (b *fakeBrowser) Available() bool { return b.available }

func (b *fakeBrowser) Open(url string) error {
	b.opened = append(b.opened, url)
	return b.openErr
}
