// Package session runs thermostat sessions on top of the pure reducer.
//
// Service creates sessions, applies one action at a time to a session,
// keeps the idle/saving mode machine in step with the state and removes
// sessions that have been idle for longer than the configured TTL.
package session
