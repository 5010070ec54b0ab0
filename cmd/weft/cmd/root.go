// Package cmd implements the weft CLI commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-weft/weft/cmd/weft/internal/config"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "weft",
	Short: "weft - declarative UI trees in Go",
	Long: `Weft is a declarative tree framework: widgets describe the desired
tree, and the reconciler syncs a live element tree against them with
minimal backing mutations.

Use "weft <command> --help" for more information about a command.`,
	SilenceUsage: true,
	Version:      fmt.Sprintf("%s (built %s)", Version, BuildTime),
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the resolved project configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := config.FindProjectRoot()
		if err != nil {
			return err
		}
		resolved, err := config.Resolve(root)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "root:    %s\n", resolved.Root)
		fmt.Fprintf(cmd.OutOrStdout(), "module:  %s\n", resolved.ModulePath)
		fmt.Fprintf(cmd.OutOrStdout(), "app:     %s\n", resolved.AppName)
		fmt.Fprintf(cmd.OutOrStdout(), "log:     %s\n", resolved.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}
