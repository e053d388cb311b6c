package google

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", ".credentials")
	store := NewFileStore(filepath.Join(dir, YouTubeProfile.CredentialFile))

	_, err := store.Read()
	assert.ErrorIs(t, err, ErrNoCredential)

	require.NoError(t, store.Init())
	require.NoError(t, store.Init())

	expiry := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Write(&oauth2.Token{
		AccessToken:  "ya29.a0",
		TokenType:    "Bearer",
		RefreshToken: "1//0g",
		Expiry:       expiry,
	}))

	got, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, "ya29.a0", got.AccessToken)
	assert.Equal(t, "1//0g", got.RefreshToken)
	assert.True(t, expiry.Equal(got.Expiry))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(store.Path())
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		dirInfo, err := os.Stat(dir)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files may be left behind")

	require.NoError(t, store.Invalidate())
	_, err = store.Read()
	assert.ErrorIs(t, err, ErrNoCredential)
	require.NoError(t, store.Invalidate())
}

func TestFileStore_BadContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cred.json")

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err := NewFileStore(path).Read()
	assert.ErrorIs(t, err, ErrIO)

	require.NoError(t, os.WriteFile(path, []byte(`{"token_type":"Bearer"}`), 0o600))
	_, err = NewFileStore(path).Read()
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestFileStore_WriteNil(t *testing.T) {
	assert.Error(t, NewFileStore(filepath.Join(t.TempDir(), "c.json")).Write(nil))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(nil)

	_, err := store.Read()
	assert.ErrorIs(t, err, ErrNoCredential)

	tok := &oauth2.Token{AccessToken: "a"}
	require.NoError(t, store.Write(tok))
	tok.AccessToken = "mutated"

	got, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, "a", got.AccessToken)

	require.NoError(t, store.Invalidate())
	_, err = store.Read()
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestStoreTokenProvider(t *testing.T) {
	store := NewMemoryStore(nil)
	p := NewStoreTokenProvider(store)

	assert.False(t, p.HasToken())

	require.NoError(t, store.Write(&oauth2.Token{AccessToken: "a", Expiry: time.Now().Add(-time.Hour)}))
	assert.False(t, p.HasToken(), "expired token without refresh token is not usable")

	require.NoError(t, store.Write(&oauth2.Token{AccessToken: "a", RefreshToken: "r", Expiry: time.Now().Add(-time.Hour)}))
	assert.True(t, p.HasToken())
}
