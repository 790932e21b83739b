package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Overridden at build time via -ldflags.
	version = "dev"
	commit  = "none"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version and commit of bughivectl.`,
	Run: func(cmd *cobra.Command, args []string) {
		if GetOutput() == "json" {
			data, _ := json.MarshalIndent(map[string]string{
				"version": version,
				"commit":  commit,
			}, "", "  ")
			fmt.Println(string(data))
		} else {
			fmt.Printf("bughivectl %s (%s)\n", version, commit)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
