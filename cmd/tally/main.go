// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Command tally is the engine's CLI: run executes the pipeline end to end
// and writes the Result, Run Record, and optional Frontier Map; fid prints
// the Formula ID for a Parameter Set without running anything else;
// verify re-checks a previously produced artifact set against an
// expected-hashes oracle. Subcommand wiring follows
// cmd/consensus/main.go's rootCmd/AddCommand/RunE shape.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	tally "github.com/lux-divisions/tally"
)

var rootCmd = &cobra.Command{
	Use:   "tally",
	Short: "Deterministic vote tabulation and allocation engine",
	Long: `tally runs a Division Registry, a Ballot Tally, and a Parameter Set
through a strictly ordered, single-threaded pipeline and emits
hash-addressed, byte-identical-across-platforms artifacts: a Result, a
Run Record, and an optional Frontier Map.`,
}

func main() {
	rootCmd.AddCommand(runCmd(), fidCmd(), verifyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tally:", err)
		os.Exit(tally.ErrorKind(err).ExitCode())
	}
}
