// Command thermo-server serves the temperature panel over HTTP and gRPC.
package main

import "github.com/oshokin/thermo-slots/cmd/thermo-server/cmd"

func main() {
	cmd.Execute()
}
