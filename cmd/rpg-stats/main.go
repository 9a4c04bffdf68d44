// Package main is the entry point for the rpg-stats CLI
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rpg-stats",
		Short: "Evaluate RPG stat sheets",
		Long: `rpg-stats loads stat collections from a YAML sheet, resolves every stat
through its modifiers and parent chain, and prints the results.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newEvalCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
