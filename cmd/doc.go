// Package cmd implements the command-line interface for gsamples.
//
// This package provides the following commands:
//   - calendar insert: Insert a one hour event into the primary calendar
//   - drive upload: Upload a local text file to Drive
//   - youtube report: Print the top videos of the default channel
//   - auth login|logout|status: Manage stored credentials
//   - config init|path: Manage the configuration file
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all commands
//
// Configuration is resolved from flags, then the GOOGLE_CLIENT_ID and
// GOOGLE_CLIENT_SECRET environment variables, then the config file.
package cmd
