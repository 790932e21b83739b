// Package cmd contains the CLI commands for bughivectl.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Used for flags
	serverURL string
	authToken string
	verbose   bool
	output    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bughivectl",
	Short: "BugHive - Issue tracker CLI",
	Long: `bughivectl talks to a running BugHive server over its HTTP API.

It covers the day to day operations: browsing projects, filing and
triaging issues, and managing project members.

Authentication uses the same bearer tokens as the web API. Pass one via
--token or the BUGHIVE_TOKEN environment variable.

Examples:
  # List the projects you can see
  bughivectl project list

  # File an issue
  bughivectl issue create --project 550e8400-e29b-41d4-a716-446655440000 \
    --title "Login page 500s" --priority HIGH

  # Move an issue through its lifecycle
  bughivectl issue transition --id <issue-id> --status IN_PROGRESS`,
	// Run when no subcommand is specified
	Run: func(cmd *cobra.Command, args []string) {
		// Show help by default
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "BugHive server URL (defaults to BUGHIVE_SERVER or http://localhost:4010)")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "bearer token (defaults to BUGHIVE_TOKEN)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "output format (table, json)")
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}

// GetOutput returns the output format.
func GetOutput() string {
	return output
}

// PrintError prints an error message and exits if fatal is true.
func PrintError(msg string, fatal bool) {
	fmt.Fprintln(os.Stderr, "Error:", msg)
	if fatal {
		os.Exit(1)
	}
}

// PrintVerbose prints a message only if verbose mode is enabled.
func PrintVerbose(format string, args ...any) {
	if verbose {
		fmt.Printf(format+"\n", args...)
	}
}
