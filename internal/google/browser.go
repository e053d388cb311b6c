package google

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
)

// DeliveryMethod says how a consent URL reached the user.
type DeliveryMethod int

const (
	// DeliveredPrinted means the URL was written out for manual navigation.
	DeliveredPrinted DeliveryMethod = iota
	// DeliveredBrowser means the system browser was launched on the URL.
	DeliveredBrowser
)

func (m DeliveryMethod) String() string {
	if m == DeliveredBrowser {
		return "browser"
	}
	return "printed"
}

// DeliveryResult reports which delivery path was taken.
type DeliveryResult struct {
	Method DeliveryMethod
	URL    string
	// BrowserErr is set when a browser launch was attempted and failed
	// before falling back to printing.
	BrowserErr error
}

// BrowserOpener launches a browser on a URL.
type BrowserOpener interface {
	// Available reports whether a browser can be launched at all.
	Available() bool
	Open(url string) error
}

var errNoBrowser = errors.New("no browser available")

// SystemBrowser opens URLs with the platform's default handler.
type SystemBrowser struct {
	goos     string
	getenv   func(string) string
	lookPath func(string) (string, error)
	start    func(name string, args ...string) error
}

// NewSystemBrowser returns a SystemBrowser for the running platform.
func NewSystemBrowser() *SystemBrowser {
	return &SystemBrowser{
		goos:     runtime.GOOS,
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
		start: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
	}
}

func (b *SystemBrowser) command(url string) (string, []string) {
	switch b.goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

// Available reports false on headless Unix sessions and when the launcher
// binary is missing.
func (b *SystemBrowser) Available() bool {
	switch b.goos {
	case "darwin", "windows":
	case "linux", "freebsd", "openbsd", "netbsd":
		if b.getenv("DISPLAY") == "" && b.getenv("WAYLAND_DISPLAY") == "" {
			return false
		}
	default:
		return false
	}
	name, _ := b.command("")
	_, err := b.lookPath(name)
	return err == nil
}

// Open launches the browser without waiting for it to exit.
func (b *SystemBrowser) Open(url string) error {
	if !b.Available() {
		return errNoBrowser
	}
	name, args := b.command(url)
	if err := b.start(name, args...); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

// URLPresenter delivers consent URLs, preferring the browser and falling
// back to printing on Out.
type URLPresenter struct {
	Browser        BrowserOpener
	Out            io.Writer
	DisableBrowser bool
}

// Deliver tries the browser first and prints the URL if that is not possible.
func (p URLPresenter) Deliver(url string) DeliveryResult {
	res := DeliveryResult{Method: DeliveredPrinted, URL: url}

	if !p.DisableBrowser && p.Browser != nil && p.Browser.Available() {
		err := p.Browser.Open(url)
		if err == nil {
			res.Method = DeliveredBrowser
			return res
		}
		res.BrowserErr = err
	}

	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "Go to the following link in your browser:\n%s\n", url)
	return res
}
