package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/teemow/gsamples/internal/config"
	"github.com/teemow/gsamples/internal/google"
	"github.com/teemow/gsamples/internal/instrumentation"
	"github.com/teemow/gsamples/internal/logging"
)

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	configPath     string
	clientID       string
	clientSecret   string
	flow           string
	noBrowser      bool
	credentialsDir string
	logLevel       string
	logFormat      string
}

// app carries state shared by the commands of one invocation.
type app struct {
	flags globalFlags

	getenv  func(string) string
	stdin   io.Reader
	browser google.BrowserOpener

	// Test overrides for the OAuth and API endpoints.
	oauthEndpoint *oauth2.Endpoint
	apiOptions    []option.ClientOption

	cfg      *config.Config
	logger   *slog.Logger
	provider *instrumentation.Provider
}

func newApp() *app {
	return &app{
		getenv:  os.Getenv,
		stdin:   os.Stdin,
		browser: google.NewSystemBrowser(),
	}
}

func (a *app) bindFlags(root *cobra.Command) {
	f := root.PersistentFlags()
	f.StringVar(&a.flags.configPath, "config", "", "Path to the config file (default: <user config dir>/gsamples/config.toml)")
	f.StringVar(&a.flags.clientID, "client-id", "", "Google OAuth client ID. Can also use GOOGLE_CLIENT_ID env var.")
	f.StringVar(&a.flags.clientSecret, "client-secret", "", "Google OAuth client secret. Can also use GOOGLE_CLIENT_SECRET env var.")
	f.StringVar(&a.flags.flow, "flow", config.FlowLoopback, "Authorization flow: loopback or oob")
	f.BoolVar(&a.flags.noBrowser, "no-browser", false, "Print the consent URL instead of opening a browser")
	f.StringVar(&a.flags.credentialsDir, "credentials-dir", "", "Directory for stored credentials (default: ~/.credentials)")
	f.StringVar(&a.flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	f.StringVar(&a.flags.logFormat, "log-format", "", "Log format: text or json")
}

// setup resolves the configuration (flags over env over file) and creates
// the logger and instrumentation provider.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flags.configPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv(a.getenv)
	a.applyFlags(cmd, cfg)

	if err := cfg.ResolveClientSecrets(); err != nil {
		return err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	provider, err := instrumentation.NewProvider(cmd.Context(), instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	a.provider = provider

	logger.Debug("Configuration loaded",
		logging.Flow(cfg.OAuth.Flow),
		"credentials_dir", cfg.Credentials.Dir,
		"instrumentation", provider.Enabled(),
	)
	return nil
}

func (a *app) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("client-id") {
		cfg.OAuth.ClientID = a.flags.clientID
	}
	if flags.Changed("client-secret") {
		cfg.OAuth.ClientSecret = a.flags.clientSecret
	}
	if flags.Changed("flow") {
		cfg.OAuth.Flow = a.flags.flow
	}
	if flags.Changed("no-browser") {
		cfg.OAuth.NoBrowser = a.flags.noBrowser
	}
	if flags.Changed("credentials-dir") {
		cfg.Credentials.Dir = a.flags.credentialsDir
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.flags.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = a.flags.logFormat
	}
}

func (a *app) shutdown(ctx context.Context) error {
	if a.provider == nil {
		return nil
	}
	return a.provider.Shutdown(ctx)
}

func (a *app) metrics() *instrumentation.Metrics {
	if a.provider == nil {
		return nil
	}
	return a.provider.Metrics()
}

func (a *app) credentialsDir() (string, error) {
	if a.cfg.Credentials.Dir != "" {
		return a.cfg.Credentials.Dir, nil
	}
	return google.DefaultCredentialsDir()
}

// store returns the file store holding the credential of profile.
func (a *app) store(profile google.ServiceProfile) (*google.FileStore, error) {
	dir, err := a.credentialsDir()
	if err != nil {
		return nil, err
	}
	return google.NewFileStore(filepath.Join(dir, profile.CredentialFile)), nil
}

// newFlow builds the authorization flow for profile from the resolved
// configuration. Interactive output goes to cmd's stdout.
func (a *app) newFlow(cmd *cobra.Command, profile google.ServiceProfile) (*google.Flow, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}

	req, err := google.NewAuthRequest(a.cfg.OAuth.ClientID, a.cfg.OAuth.ClientSecret, profile.Scopes...)
	if err != nil {
		return nil, err
	}
	req = req.WithOfflineAccess(profile.Offline)
	if a.oauthEndpoint != nil {
		req = req.WithEndpoint(*a.oauthEndpoint)
	}

	var receiver google.CodeReceiver
	switch a.cfg.OAuth.Flow {
	case config.FlowOOB:
		receiver = &google.PromptReceiver{In: a.stdin, Out: cmd.OutOrStdout()}
	default:
		receiver = google.NewLoopbackReceiver(a.cfg.OAuth.CallbackPort, a.logger)
	}

	store, err := a.store(profile)
	if err != nil {
		return nil, err
	}

	return google.NewFlow(req, receiver,
		google.WithStore(store),
		google.WithDeliverer(google.URLPresenter{
			Browser:        a.browser,
			Out:            cmd.OutOrStdout(),
			DisableBrowser: a.cfg.OAuth.NoBrowser,
		}),
		google.WithLogger(logging.NewSlogAdapter(a.logger).With(logging.Service(profile.Name))),
		google.WithMetrics(a.metrics()),
	), nil
}

// httpClient returns an authorized client for profile, authorizing first
// when no usable credential is stored.
func (a *app) httpClient(cmd *cobra.Command, profile google.ServiceProfile) (*http.Client, error) {
	flow, err := a.newFlow(cmd, profile)
	if err != nil {
		return nil, err
	}
	return flow.HTTPClient(cmd.Context())
}

func (a *app) serviceLogger(service string) *logging.SlogAdapter {
	return logging.NewSlogAdapter(logging.WithService(a.logger, service))
}
