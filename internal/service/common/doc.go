// Package common holds helpers shared by the server and the CLI.
//
// It provides a gRPC client wrapper for the thermostat service with call
// timeouts, and detection of the current system actor (user@host) that the
// client sends as request metadata for audit logging.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
