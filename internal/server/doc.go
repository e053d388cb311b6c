// Package server provides the loopback HTTP listener that receives the OAuth
// authorization redirect from Google during a desktop consent flow.
//
// # Key Components
//
// CallbackServer binds 127.0.0.1 on a fixed or ephemeral port and serves a
// single /callback route. The first redirect that arrives settles the result:
//   - an "error" query parameter becomes a *ProviderError
//   - a state that does not match the expected value becomes ErrStateMismatch
//   - a missing code becomes ErrMissingCode
//   - otherwise the code is handed to WaitForCode
//
// Later requests still receive a response page but do not change the result.
package server
