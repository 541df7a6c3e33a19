// Package thermostat implements the gRPC transport of thermo-slots.
//
// The service is described by hand with protobuf well-known types as
// messages (Empty, StringValue, Struct), so no generated code is needed.
// The package also holds the client stub and the conversions between
// domain snapshots and their Struct wire form.
package thermostat
