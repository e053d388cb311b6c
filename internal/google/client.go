package google

import (
	"context"
	"crypto/tls"
	"net/http"
	"sync"

	"golang.org/x/oauth2"

	"github.com/teemow/gsamples/internal/instrumentation"
	"github.com/teemow/gsamples/internal/logging"
)

// NewHTTPClient returns an HTTP client that authenticates every request with
// tokens from src.
//
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors
// seen on long media uploads. A client stored in ctx under oauth2.HTTPClient
// supplies the base transport instead.
func NewHTTPClient(ctx context.Context, src oauth2.TokenSource) *http.Client {
	if c, ok := ctx.Value(oauth2.HTTPClient).(*http.Client); ok && c != nil {
		return &http.Client{
			Transport: &oauth2.Transport{Source: src, Base: c.Transport},
			Timeout:   c.Timeout,
		}
	}

	return &http.Client{
		Transport: &oauth2.Transport{Source: src, Base: http1Transport()},
	}
}

func http1Transport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.ForceAttemptHTTP2 = false
	t.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
	return t
}

// persistingTokenSource writes every token different from the last one it
// saw back to the store, so a refresh survives the process.
type persistingTokenSource struct {
	base    oauth2.TokenSource
	store   CredentialStore
	metrics *instrumentation.Metrics
	logger  logging.Logger
	ctx     context.Context

	mu   sync.Mutex
	last string
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.metrics.RecordOAuthTokenRefresh(s.ctx, instrumentation.OAuthResultFailure)
		return nil, err
	}
	if tok.AccessToken == s.last {
		return tok, nil
	}

	s.metrics.RecordOAuthTokenRefresh(s.ctx, instrumentation.OAuthResultSuccess)
	s.last = tok.AccessToken
	if werr := s.store.Write(tok); werr != nil {
		s.logger.Warn("Failed to persist refreshed credential", logging.Err(werr))
	} else {
		s.logger.Debug("Persisted refreshed credential", logging.Token("access_token", tok.AccessToken))
	}
	return tok, nil
}
