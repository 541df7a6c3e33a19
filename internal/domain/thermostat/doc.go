// Package thermostat contains the core domain logic of thermo-slots.
//
// It defines the per-session State (current temperature, three memory slots
// and the saving mode flag), the Action values a renderer can send, and a
// pure Reduce function that applies an action to a state and returns the new
// state together with a Notice to show for the current render.
package thermostat
