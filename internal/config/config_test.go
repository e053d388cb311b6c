package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, FlowLoopback, cfg.OAuth.Flow)
	assert.Equal(t, 0, cfg.OAuth.CallbackPort)
	assert.False(t, cfg.OAuth.NoBrowser)
	assert.Empty(t, cfg.OAuth.ClientID)
	assert.Empty(t, cfg.Credentials.Dir)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := writeFile(t, "config.toml", `
[oauth]
client_id = "id.apps.googleusercontent.com"
client_secret = "s3cret"
flow = "oob"

[logging]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "id.apps.googleusercontent.com", cfg.OAuth.ClientID)
	assert.Equal(t, "s3cret", cfg.OAuth.ClientSecret)
	assert.Equal(t, FlowOOB, cfg.OAuth.Flow)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// untouched keys keep their defaults
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		isErr   error
	}{
		{name: "malformed", content: "[oauth\nclient_id = 1"},
		{name: "wrong type", content: "[oauth]\ncallback_port = \"eighty\""},
		{name: "unknown key", content: "[oauth]\nclient = \"x\"", isErr: ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, "config.toml", tt.content))
			require.Error(t, err)
			assert.Nil(t, cfg)
			if tt.isErr != nil {
				assert.ErrorIs(t, err, tt.isErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Run("explicit path must exist", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("default path may be absent", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", dir)
		t.Setenv("HOME", dir)

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})
}

func TestCreateConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gsamples", "config.toml")

	require.NoError(t, CreateConfigFile(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	assert.Error(t, CreateConfigFile(path), "existing file is not overwritten")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{EnvClientID: "env-id"}

	cfg := DefaultConfig()
	cfg.OAuth.ClientID = "file-id"
	cfg.OAuth.ClientSecret = "file-secret"
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "env-id", cfg.OAuth.ClientID)
	assert.Equal(t, "file-secret", cfg.OAuth.ClientSecret, "unset variables do not clear values")
}

func TestResolveClientSecrets(t *testing.T) {
	secrets := `{"installed":{
		"client_id":"installed-id.apps.googleusercontent.com",
		"client_secret":"installed-secret",
		"auth_uri":"https://accounts.google.com/o/oauth2/auth",
		"token_uri":"https://oauth2.googleapis.com/token",
		"redirect_uris":["http://localhost"]
	}}`

	t.Run("fills from file", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.OAuth.ClientSecretsFile = writeFile(t, "client_secret.json", secrets)

		require.NoError(t, cfg.ResolveClientSecrets())
		assert.Equal(t, "installed-id.apps.googleusercontent.com", cfg.OAuth.ClientID)
		assert.Equal(t, "installed-secret", cfg.OAuth.ClientSecret)
	})

	t.Run("explicit client ID wins", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.OAuth.ClientID = "flag-id"
		cfg.OAuth.ClientSecretsFile = filepath.Join(t.TempDir(), "missing.json")

		require.NoError(t, cfg.ResolveClientSecrets())
		assert.Equal(t, "flag-id", cfg.OAuth.ClientID)
	})

	t.Run("missing file", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.OAuth.ClientSecretsFile = filepath.Join(t.TempDir(), "missing.json")
		assert.ErrorIs(t, cfg.ResolveClientSecrets(), os.ErrNotExist)
	})

	t.Run("not a client secrets file", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.OAuth.ClientSecretsFile = writeFile(t, "other.json", `{"type":"service_account"}`)
		assert.ErrorIs(t, cfg.ResolveClientSecrets(), ErrInvalid)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid loopback", mutate: func(c *Config) { c.OAuth.ClientID = "id" }},
		{name: "valid oob", mutate: func(c *Config) { c.OAuth.ClientID = "id"; c.OAuth.Flow = FlowOOB }},
		{name: "missing client ID", mutate: func(c *Config) {}, wantErr: true},
		{name: "unknown flow", mutate: func(c *Config) { c.OAuth.ClientID = "id"; c.OAuth.Flow = "device" }, wantErr: true},
		{name: "port out of range", mutate: func(c *Config) { c.OAuth.ClientID = "id"; c.OAuth.CallbackPort = 70000 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
