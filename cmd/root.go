// Package cmd implements the CLI commands for md2chunks using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "md2chunks",
	Short: "md2chunks — split text and markdown documents into token-bounded chunks",
	Long: `md2chunks is a deterministic pipeline that splits text and markdown
documents into bounded-size, context-preserving chunks for token-budgeted
consumption (embedding, indexing, prompting).

Usage:
  md2chunks chunk <input_dir> [flags]`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
