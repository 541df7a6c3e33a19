// Package session stores per-session thermostat records.
//
// MemoryRepository keeps records in process memory only; nothing survives a
// restart. The session service depends on the Repository interface.
package session
