package google

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/teemow/gsamples/internal/server"
)

// CodeReceiver obtains the authorization code once the user has consented.
type CodeReceiver interface {
	// Start prepares the receiver for a request carrying state and returns
	// the redirect target to put in the authorization URL.
	Start(ctx context.Context, state string) (redirectURL string, err error)
	// WaitForCode blocks until a code arrives or ctx is done.
	WaitForCode(ctx context.Context) (string, error)
	// Close releases the receiver's resources.
	Close() error
	// Flow names the variant for logs and metrics.
	Flow() string
}

// Flow variants.
const (
	FlowLoopback = "loopback"
	FlowOOB      = "oob"
)

// PromptReceiver reads a pasted code from a line-oriented input (out-of-band flow).
type PromptReceiver struct {
	In  io.Reader
	Out io.Writer

	// Interactive decides whether to print the prompt. Defaults to a TTY check on In.
	Interactive func() bool
}

// NewPromptReceiver reads codes from stdin and prompts on stdout.
func NewPromptReceiver() *PromptReceiver {
	return &PromptReceiver{In: os.Stdin, Out: os.Stdout}
}

func (p *PromptReceiver) Flow() string { return FlowOOB }

// Start returns the out-of-band redirect target.
func (p *PromptReceiver) Start(context.Context, string) (string, error) {
	return OOBRedirectURL, nil
}

func (p *PromptReceiver) interactive() bool {
	if p.Interactive != nil {
		return p.Interactive()
	}
	if f, ok := p.In.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// WaitForCode reads one line. A closed input is an i/o failure and a blank
// line is an authorization failure.
func (p *PromptReceiver) WaitForCode(ctx context.Context) (string, error) {
	if p.In == nil {
		return "", fmt.Errorf("%w: no input to read the authorization code from", ErrIO)
	}
	if p.Out != nil && p.interactive() {
		fmt.Fprint(p.Out, "What is the authorisation code? ")
	}

	if ctx.Done() == nil {
		return parseCode(bufio.NewReader(p.In).ReadString('\n'))
	}

	// A blocking Read cannot be interrupted, so on cancellation the reader
	// goroutine stays parked until In yields a line or is closed.
	type line struct {
		text string
		err  error
	}
	ch := make(chan line, 1)
	go func() {
		text, err := bufio.NewReader(p.In).ReadString('\n')
		ch <- line{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: waiting for authorization code: %w", ErrAuthorization, ctx.Err())
	case l := <-ch:
		return parseCode(l.text, l.err)
	}
}

// parseCode trims a read line. A final line without a newline still counts.
func parseCode(text string, err error) (string, error) {
	code := strings.TrimSpace(text)
	if err != nil && !(errors.Is(err, io.EOF) && code != "") {
		return "", fmt.Errorf("%w: reading authorization code: %w", ErrIO, err)
	}
	if code == "" {
		return "", fmt.Errorf("%w: empty authorization code", ErrAuthorization)
	}
	return code, nil
}

func (p *PromptReceiver) Close() error { return nil }

// LoopbackReceiver captures the code from a redirect to a local listener.
type LoopbackReceiver struct {
	// Port to bind on 127.0.0.1, 0 for any free port.
	Port   int
	Logger *slog.Logger

	mu  sync.Mutex
	srv *server.CallbackServer
}

// NewLoopbackReceiver returns a receiver listening on port.
func NewLoopbackReceiver(port int, logger *slog.Logger) *LoopbackReceiver {
	return &LoopbackReceiver{Port: port, Logger: logger}
}

func (l *LoopbackReceiver) Flow() string { return FlowLoopback }

// Start binds the callback listener.
func (l *LoopbackReceiver) Start(_ context.Context, state string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	srv := server.NewCallbackServer(l.Port, state, server.WithLogger(l.Logger))
	if err := srv.Start(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrIO, err)
	}
	l.srv = srv
	return srv.RedirectURI(), nil
}

// WaitForCode blocks until the redirect arrives.
func (l *LoopbackReceiver) WaitForCode(ctx context.Context) (string, error) {
	l.mu.Lock()
	srv := l.srv
	l.mu.Unlock()
	if srv == nil {
		return "", fmt.Errorf("%w: loopback receiver not started", ErrIO)
	}

	code, err := srv.WaitForCode(ctx)
	if err == nil {
		return code, nil
	}

	var perr *server.ProviderError
	switch {
	case errors.As(err, &perr),
		errors.Is(err, server.ErrStateMismatch),
		errors.Is(err, server.ErrMissingCode),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return "", fmt.Errorf("%w: %w", ErrAuthorization, err)
	default:
		return "", fmt.Errorf("%w: %w", ErrIO, err)
	}
}

// Close stops the listener.
func (l *LoopbackReceiver) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.srv == nil {
		return nil
	}
	err := l.srv.Close()
	l.srv = nil
	return err
}
