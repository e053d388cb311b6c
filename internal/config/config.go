package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"golang.org/x/oauth2/google"
)

//go:embed config.example.toml
var exampleConf []byte

// Authorization flow variants.
const (
	FlowLoopback = "loopback"
	FlowOOB      = "oob"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvClientID     = "GOOGLE_CLIENT_ID"
	EnvClientSecret = "GOOGLE_CLIENT_SECRET"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

// Config is the gsamples configuration file.
type Config struct {
	OAuth       OAuthConfig       `toml:"oauth"`
	Credentials CredentialsConfig `toml:"credentials"`
	Logging     LoggingConfig     `toml:"logging"`
}

// OAuthConfig holds the installed-application client and flow settings.
type OAuthConfig struct {
	ClientID          string `toml:"client_id"`
	ClientSecret      string `toml:"client_secret"`
	ClientSecretsFile string `toml:"client_secrets_file"`
	Flow              string `toml:"flow"`
	CallbackPort      int    `toml:"callback_port"`
	NoBrowser         bool   `toml:"no_browser"`
}

// CredentialsConfig locates stored tokens.
type CredentialsConfig struct {
	Dir string `toml:"dir"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultConfig returns the configuration described by the embedded example file.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// DefaultPath returns <user config dir>/gsamples/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, "gsamples", "config.toml"), nil
}

// Load reads the file at path over the defaults. An empty path means
// DefaultPath, which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return DefaultConfig(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	md, err := toml.Decode(string(data), config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown key %q in %s", ErrInvalid, undecoded[0].String(), path)
	}

	return config, nil
}

// CreateConfigFile writes the example configuration to path.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, exampleConf, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides the client credentials with GOOGLE_CLIENT_ID and
// GOOGLE_CLIENT_SECRET when they are set.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvClientID); v != "" {
		c.OAuth.ClientID = v
	}
	if v := getenv(EnvClientSecret); v != "" {
		c.OAuth.ClientSecret = v
	}
}

// ResolveClientSecrets fills the client ID and secret from
// ClientSecretsFile when no client ID is configured.
func (c *Config) ResolveClientSecrets() error {
	if c.OAuth.ClientID != "" || c.OAuth.ClientSecretsFile == "" {
		return nil
	}

	data, err := os.ReadFile(c.OAuth.ClientSecretsFile)
	if err != nil {
		return fmt.Errorf("failed to read client secrets: %w", err)
	}

	oc, err := google.ConfigFromJSON(data)
	if err != nil {
		return fmt.Errorf("%w: client secrets %s: %w", ErrInvalid, c.OAuth.ClientSecretsFile, err)
	}

	c.OAuth.ClientID = oc.ClientID
	if c.OAuth.ClientSecret == "" {
		c.OAuth.ClientSecret = oc.ClientSecret
	}
	return nil
}

// Validate reports missing client credentials and unknown settings.
func (c *Config) Validate() error {
	var errs []error

	if c.OAuth.ClientID == "" {
		errs = append(errs, fmt.Errorf("%w: oauth client ID is required (set %s, oauth.client_id or oauth.client_secrets_file)", ErrInvalid, EnvClientID))
	}

	switch c.OAuth.Flow {
	case FlowLoopback, FlowOOB:
	default:
		errs = append(errs, fmt.Errorf("%w: unknown oauth flow %q (expected %s or %s)", ErrInvalid, c.OAuth.Flow, FlowLoopback, FlowOOB))
	}

	if c.OAuth.CallbackPort < 0 || c.OAuth.CallbackPort > 65535 {
		errs = append(errs, fmt.Errorf("%w: callback port %d out of range", ErrInvalid, c.OAuth.CallbackPort))
	}

	return errors.Join(errs...)
}
