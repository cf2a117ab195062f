// Package commands implements the `kson` CLI's subcommands: format, json,
// yaml, validate, and watch, wired to a cobra.Command tree the way the
// teacher's internal/cli/commands package wires conduit's subcommands.
package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version information, set at build time via -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var verbose bool

// NewRootCommand builds the `kson` command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kson",
		Short: "KSON — a human-friendly JSON superset",
		Long: color.CyanString(`kson - tooling for the KSON language

KSON is a human-friendly superset of JSON: comments, unquoted keys, dash
lists, and raw embed blocks, with lossless transpilation to JSON and YAML
and Draft-7 JSON Schema validation.`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewFormatCommand())
	rootCmd.AddCommand(NewJSONCommand())
	rootCmd.AddCommand(NewYAMLCommand())
	rootCmd.AddCommand(NewValidateCommand())
	rootCmd.AddCommand(NewWatchCommand())

	return rootCmd
}

// NewVersionCommand reports build version information.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			titleColor := color.New(color.FgCyan, color.Bold)
			valueColor := color.New(color.FgWhite)
			out := cmd.OutOrStdout()
			titleColor.Fprint(out, "kson version: ")
			valueColor.Fprintln(out, Version)
			titleColor.Fprint(out, "git commit: ")
			valueColor.Fprintln(out, GitCommit)
		},
	}
}

// Execute runs the root command, printing a colored error on failure.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
