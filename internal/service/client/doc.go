// Package client implements thermoctl, the terminal renderer of thermo-slots.
//
// It connects to thermo-server over gRPC, opens sessions, sends one action
// per invocation and prints the resulting panel (or the raw reply as JSON).
package client
