package server

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"
)

// CallbackPath is the route Google redirects to after consent.
const CallbackPath = "/callback"

var (
	// ErrStateMismatch is returned when the redirect carries an unexpected state value.
	ErrStateMismatch = errors.New("oauth callback state mismatch")

	// ErrMissingCode is returned when the redirect carries neither a code nor an error.
	ErrMissingCode = errors.New("oauth callback carried no authorization code")

	// ErrNotStarted is returned by WaitForCode before Start succeeded.
	ErrNotStarted = errors.New("callback server not started")
)

// ProviderError is the error reported by the authorization server through
// the error and error_description redirect parameters.
type ProviderError struct {
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	if e.Description == "" {
		return "authorization server returned " + e.Code
	}
	return fmt.Sprintf("authorization server returned %s: %s", e.Code, e.Description)
}

type callbackResult struct {
	code string
	err  error
}

// CallbackServer receives a single OAuth authorization redirect on the loopback interface.
type CallbackServer struct {
	mu            sync.Mutex
	port          int
	expectedState string
	logger        *slog.Logger

	result   chan callbackResult
	serveErr chan error
	server   *http.Server
	listener net.Listener
}

// Option configures a CallbackServer.
type Option func(*CallbackServer)

// WithLogger sets the logger used for callback diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *CallbackServer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewCallbackServer creates a callback server that accepts redirects carrying
// expectedState. A port of 0 picks a free port when Start is called.
func NewCallbackServer(port int, expectedState string, opts ...Option) *CallbackServer {
	s := &CallbackServer{
		port:          port,
		expectedState: expectedState,
		logger:        slog.Default(),
		result:        make(chan callbackResult, 1),
		serveErr:      make(chan error, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start binds the listener and begins serving in the background.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return nil
	}

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	mux := http.NewServeMux()
	mux.HandleFunc(CallbackPath, s.handleCallback)

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
	s.server = srv

	// Close may clear s.server before this goroutine runs.
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case s.serveErr <- err:
			default:
			}
		}
	}()

	s.logger.Debug("OAuth callback server listening", "address", listener.Addr().String())
	return nil
}

// settle records the first outcome and drops the rest.
func (s *CallbackServer) settle(res callbackResult) {
	select {
	case s.result <- res:
	default:
	}
}

func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if errParam := query.Get("error"); errParam != "" {
		perr := &ProviderError{Code: errParam, Description: query.Get("error_description")}
		s.logger.Warn("OAuth callback reported an error", "error", perr.Error())
		s.settle(callbackResult{err: perr})
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprint(w, resultPage("Authorization failed", perr.Error()))
		return
	}

	if query.Get("state") != s.expectedState {
		s.logger.Warn("OAuth callback state mismatch")
		s.settle(callbackResult{err: ErrStateMismatch})
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprint(w, resultPage("Authorization failed", "Invalid state parameter."))
		return
	}

	code := query.Get("code")
	if code == "" {
		s.settle(callbackResult{err: ErrMissingCode})
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprint(w, resultPage("Authorization failed", "No authorization code received."))
		return
	}

	s.settle(callbackResult{code: code})
	_, _ = fmt.Fprint(w, resultPage("Authorization successful", "You can close this window and return to the terminal."))
}

// WaitForCode blocks until a redirect settles the result, the server fails,
// or ctx is done.
func (s *CallbackServer) WaitForCode(ctx context.Context) (string, error) {
	s.mu.Lock()
	started := s.server != nil
	s.mu.Unlock()
	if !started {
		return "", ErrNotStarted
	}

	select {
	case res := <-s.result:
		return res.code, res.err
	case err := <-s.serveErr:
		return "", fmt.Errorf("callback server failed: %w", err)
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for authorization callback: %w", ctx.Err())
	}
}

// Close shuts the server down. It is safe to call more than once.
func (s *CallbackServer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.server = nil
	s.listener = nil
	return err
}

// Port returns the port the server listens on, resolved after Start when it was 0.
func (s *CallbackServer) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// RedirectURI returns the redirect URI to register with the authorization
// request. It names the bound address so the redirect cannot land on ::1.
func (s *CallbackServer) RedirectURI() string {
	return fmt.Sprintf("http://127.0.0.1:%d%s", s.Port(), CallbackPath)
}

func resultPage(title, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>gsamples</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 15vh;">
<h1>%s</h1>
<p>%s</p>
</body>
</html>`, html.EscapeString(title), html.EscapeString(message))
}
