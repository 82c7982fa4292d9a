package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/notehub/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("notehub version %s\n", version.Effective())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
