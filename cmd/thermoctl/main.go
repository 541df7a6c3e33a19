// Command thermoctl drives a thermo-server session from the terminal.
package main

import "github.com/oshokin/thermo-slots/cmd/thermoctl/cmd"

func main() {
	cmd.Execute()
}
