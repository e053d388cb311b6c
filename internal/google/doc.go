// Package google provides OAuth2 authorization and credential storage for the
// Google API commands.
//
// A Flow combines an immutable AuthRequest (client, scopes, redirect target),
// a CodeReceiver that obtains the authorization code, a URLDeliverer that
// shows the consent URL, and a CredentialStore that keeps the token between
// runs. Two receivers exist:
//   - LoopbackReceiver captures the redirect on a 127.0.0.1 listener
//   - PromptReceiver reads a pasted code for the out-of-band redirect
//
// Errors from this package and from the API clients built on it match one of
// ErrAuthorization, ErrIO, ErrRemoteAPI, ErrNotFound or ErrNoCredential.
package google
