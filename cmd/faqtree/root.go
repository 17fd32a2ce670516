// Package main provides the entry point for the faqtree CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for faqtree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "faqtree",
		Short: "Generate chatbot dialogue trees from website FAQ pages",
		Long: `faqtree crawls a website's FAQ and support pages and compiles the
extracted question/answer pairs into a chatbot dialogue tree.

The tree links every question to its answer node, attaches navigation
fallbacks derived from the site's link structure, and is emitted as JSON
or Markdown.`,
		Version:       resolveBuildDetails().version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewInitCmd())
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
