// Package config loads the gsamples TOML configuration.
//
// Values are layered: the embedded defaults, then the config file, then the
// GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET environment variables, then
// command line flags applied by the caller.
package config
