// Package config loads, merges and validates configuration.
//
// Sources, highest priority first:
//  1. Environment variables
//  2. Command-line flags (server only)
//  3. JSON config file
//  4. Built-in defaults
//
// [GetStructuredConfig] serves the server, [GetClientConfig] the CLI client.
package config
