package google

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

// CredentialStore persists one OAuth token across runs.
type CredentialStore interface {
	// Init prepares the backing storage. It is safe to call more than once.
	Init() error
	// Read returns the stored token, or ErrNoCredential when there is none.
	Read() (*oauth2.Token, error)
	// Write replaces the stored token.
	Write(tok *oauth2.Token) error
	// Invalidate removes the stored token. Removing nothing is not an error.
	Invalidate() error
}

// DefaultCredentialsDir returns ~/.credentials.
func DefaultCredentialsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: locating home directory: %w", ErrIO, err)
	}
	return filepath.Join(home, ".credentials"), nil
}

// FileStore keeps the token as JSON in a single file readable only by the owner.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("%w: creating credentials directory: %w", ErrIO, err)
	}
	return nil
}

func (s *FileStore) Read() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoCredential
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading credential %s: %w", ErrIO, s.path, err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("%w: decoding credential %s: %w", ErrIO, s.path, err)
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, ErrNoCredential
	}
	return &tok, nil
}

// Write stores tok atomically by writing a sibling temp file and renaming it.
func (s *FileStore) Write(tok *oauth2.Token) error {
	if tok == nil {
		return errors.New("refusing to store a nil token")
	}
	if err := s.Init(); err != nil {
		return err
	}

	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encoding credential: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".credential-*")
	if err != nil {
		return fmt.Errorf("%w: creating temp credential file: %w", ErrIO, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: writing credential: %w", ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("%w: replacing credential %s: %w", ErrIO, s.path, err)
	}
	return nil
}

func (s *FileStore) Invalidate() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: removing credential %s: %w", ErrIO, s.path, err)
	}
	return nil
}

// MemoryStore keeps the token in process memory.
type MemoryStore struct {
	mu  sync.Mutex
	tok *oauth2.Token
}

// NewMemoryStore returns an empty store, or one seeded with tok.
func NewMemoryStore(tok *oauth2.Token) *MemoryStore {
	return &MemoryStore{tok: tok}
}

func (s *MemoryStore) Init() error { return nil }

func (s *MemoryStore) Read() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tok == nil {
		return nil, ErrNoCredential
	}
	cp := *s.tok
	return &cp, nil
}

func (s *MemoryStore) Write(tok *oauth2.Token) error {
	if tok == nil {
		return errors.New("refusing to store a nil token")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *tok
	s.tok = &cp
	return nil
}

func (s *MemoryStore) Invalidate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok = nil
	return nil
}
