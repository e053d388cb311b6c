package google

import (
	"context"

	"golang.org/x/oauth2"
)

// TokenProvider is an interface for providing OAuth tokens for Google APIs.
// Flow prompts the user when needed; StoreTokenProvider never does.
type TokenProvider interface {
	// Token returns a credential for the configured service.
	Token(ctx context.Context) (*oauth2.Token, error)

	// HasToken checks if a usable credential is already stored.
	HasToken() bool
}

var (
	_ TokenProvider = (*Flow)(nil)
	_ TokenProvider = (*StoreTokenProvider)(nil)
)

// StoreTokenProvider serves tokens from a CredentialStore without any user interaction.
type StoreTokenProvider struct {
	store CredentialStore
}

// NewStoreTokenProvider creates a provider reading from store.
func NewStoreTokenProvider(store CredentialStore) *StoreTokenProvider {
	return &StoreTokenProvider{store: store}
}

// Token returns the stored token, or ErrNoCredential.
func (p *StoreTokenProvider) Token(context.Context) (*oauth2.Token, error) {
	return p.store.Read()
}

// HasToken checks if the store holds a token that is valid or refreshable.
func (p *StoreTokenProvider) HasToken() bool {
	tok, err := p.store.Read()
	return err == nil && usable(tok)
}
