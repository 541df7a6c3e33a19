// Package metrics registers the Prometheus collectors of thermo-slots and
// exposes small helpers so callers never touch label plumbing directly.
package metrics
