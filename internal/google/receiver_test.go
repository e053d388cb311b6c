package google

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptReceiver(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		interactive bool
		wantCode    string
		wantErr     error
		wantPrompt  bool
	}{
		{name: "code with newline", input: "4/0AX4XfWh\n", wantCode: "4/0AX4XfWh"},
		{name: "code without newline", input: "4/0AX4XfWh", wantCode: "4/0AX4XfWh"},
		{name: "surrounding whitespace", input: "  abc  \r\n", wantCode: "abc"},
		{name: "prompt on terminal", input: "abc\n", interactive: true, wantCode: "abc", wantPrompt: true},
		{name: "blank line", input: "\n", wantErr: ErrAuthorization},
		{name: "closed input", input: "", wantErr: ErrIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			r := &PromptReceiver{
				In:          strings.NewReader(tt.input),
				Out:         &out,
				Interactive: func() bool { return tt.interactive },
			}

			redirect, err := r.Start(context.Background(), "ignored")
			require.NoError(t, err)
			assert.Equal(t, OOBRedirectURL, redirect)

			code, err := r.WaitForCode(context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, code)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantCode, code)
			}

			if tt.wantPrompt {
				assert.Equal(t, "What is the authorisation code? ", out.String())
			} else {
				assert.Empty(t, out.String())
			}
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("device gone") }

func TestPromptReceiver_ReadError(t *testing.T) {
	r := &PromptReceiver{In: failingReader{}, Out: io.Discard}

	_, err := r.WaitForCode(context.Background())
	assert.ErrorIs(t, err, ErrIO)
}

func TestPromptReceiver_ContextCancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	r := &PromptReceiver{In: pr, Out: io.Discard}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := r.WaitForCode(ctx)
	assert.ErrorIs(t, err, ErrAuthorization)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPromptReceiver_CancellableContext(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	r := &PromptReceiver{In: pr, Out: io.Discard}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _, _ = io.WriteString(pw, "late-code\n") }()

	code, err := r.WaitForCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "late-code", code)
}

func redirectTo(t *testing.T, redirectURL string, params url.Values) {
	t.Helper()

	u, err := url.Parse(redirectURL)
	require.NoError(t, err)
	u.Host = "127.0.0.1:" + u.Port()
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, u.String(), nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
}

func TestLoopbackReceiver(t *testing.T) {
	t.Run("code", func(t *testing.T) {
		r := NewLoopbackReceiver(0, nil)
		redirect, err := r.Start(context.Background(), "state-1")
		require.NoError(t, err)
		defer r.Close()

		assert.True(t, strings.HasPrefix(redirect, "http://127.0.0.1:"))
		assert.True(t, strings.HasSuffix(redirect, "/callback"))

		redirectTo(t, redirect, url.Values{"code": {"the-code"}, "state": {"state-1"}})

		code, err := r.WaitForCode(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "the-code", code)
	})

	t.Run("consent denied", func(t *testing.T) {
		r := NewLoopbackReceiver(0, nil)
		redirect, err := r.Start(context.Background(), "state-1")
		require.NoError(t, err)
		defer r.Close()

		redirectTo(t, redirect, url.Values{"error": {"access_denied"}, "state": {"state-1"}})

		_, err = r.WaitForCode(context.Background())
		assert.ErrorIs(t, err, ErrAuthorization)
	})

	t.Run("forged state", func(t *testing.T) {
		r := NewLoopbackReceiver(0, nil)
		redirect, err := r.Start(context.Background(), "state-1")
		require.NoError(t, err)
		defer r.Close()

		redirectTo(t, redirect, url.Values{"code": {"c"}, "state": {"other"}})

		_, err = r.WaitForCode(context.Background())
		assert.ErrorIs(t, err, ErrAuthorization)
	})

	t.Run("port in use", func(t *testing.T) {
		first := NewLoopbackReceiver(0, nil)
		redirect, err := first.Start(context.Background(), "s")
		require.NoError(t, err)
		defer first.Close()

		u, err := url.Parse(redirect)
		require.NoError(t, err)
		port, err := strconv.Atoi(u.Port())
		require.NoError(t, err)

		second := NewLoopbackReceiver(port, nil)
		_, err = second.Start(context.Background(), "s")
		assert.ErrorIs(t, err, ErrIO)
	})

	t.Run("cancelled before any redirect", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			r := NewLoopbackReceiver(0, nil)
			_, err := r.Start(context.Background(), "s")
			require.NoError(t, err)

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err = r.WaitForCode(ctx)
			assert.ErrorIs(t, err, ErrAuthorization)
			assert.NoError(t, r.Close())
		}
	})

	t.Run("not started", func(t *testing.T) {
		r := NewLoopbackReceiver(0, nil)
		_, err := r.WaitForCode(context.Background())
		assert.ErrorIs(t, err, ErrIO)
		assert.NoError(t, r.Close())
	})
}
