// Package cmd implements the asdep CLI: the assembler-front-end stand-in
// that drives dependency registration, the make-rule emitter, and the
// OmniBOR manifest writer for a given set of input files.
package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const toolVersion = "1.0.0"

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "asdep"})

var rootCmd = &cobra.Command{
	Use:     "asdep",
	Short:   "OmniBOR-aware dependency tracker",
	Version: toolVersion,
	Long: `asdep stands in for the dependency-tracking subsystem embedded in an
assembler: given the input files consumed while producing an output object,
it emits a make-compatible dependency rule and computes OmniBOR manifests
that content-address every dependency with git-style blob hashes.`,
}

func init() {
	rootCmd.AddCommand(trackCmd)
}

// Execute runs the root command, exiting non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
