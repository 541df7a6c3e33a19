// Package config defines the thermo-slots settings and helpers to load,
// validate and save them in YAML format.
//
// Config holds the listen addresses of the web and gRPC servers, the client
// call timeout, session handling parameters and the adjust policy flag.
package config
