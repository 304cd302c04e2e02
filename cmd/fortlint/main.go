// Package main is the fortlint command.
package main

import (
	"os"

	"github.com/leapstack-labs/fortlint/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
