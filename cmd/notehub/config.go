package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marcus/notehub/internal/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the config file",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(targetConfigPath())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a config file with the default settings. The API token is never
written; set NOTEHUB_TOKEN in the environment instead.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		path := targetConfigPath()
		if path == "" {
			fatal("Error", fmt.Errorf("cannot resolve config path"))
		}
		if _, err := os.Stat(path); err == nil && !configForce {
			fatal("Error", fmt.Errorf("%s already exists (use --force to overwrite)", path))
		}
		if err := config.SaveTo(path, config.Default()); err != nil {
			fatal("Error writing config", err)
		}
		fmt.Printf("Wrote %s\n", path)
	},
}

func targetConfigPath() string {
	if configPath != "" {
		return config.ExpandPath(configPath)
	}
	return config.ConfigPath()
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd, configInitCmd)
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")
}
