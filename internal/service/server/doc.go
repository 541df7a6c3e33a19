// Package server runs thermo-server: the session service exposed through the
// web renderer and the gRPC API, plus the idle-session sweeper.
package server
