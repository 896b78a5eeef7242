// Command tds-ta runs the TDS virtual teaching assistant.
package main

import (
	"os"

	"github.com/23f2000673/tds-virtual-ta/internal/adapters/driving/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
