// Package main provides the entry point for the chunkcrawl CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for chunkcrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chunkcrawl",
		Short: "Fetch web content into token-budgeted chunks",
		Long: `chunkcrawl fetches web content and repackages it into token-budgeted
chunks that fit language model context windows.

A crawl maps a site and returns every chunk it produced. Search and
fetch return a single chunk with a continuation cursor, so callers can
page through large result sets one invocation at a time.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewFetchCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
