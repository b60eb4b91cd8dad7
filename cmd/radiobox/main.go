// SPDX-License-Identifier: EPL-2.0

// Command radiobox drives the radio audio subsystem from a terminal.
//
// Usage:
//
//	radiobox [flags] <command> [args]
//
// Commands:
//
//	play     - interactive player (raw keyboard input)
//	tracks   - list the station catalog
//	render   - export the generated artifact buffers as WAV
//	devices  - list capture devices
package main

import (
	"fmt"
	"os"

	"github.com/ik5/radiobox/cmd/radiobox/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
