// Smartthermo is the configuration tool for SmartThermo thermometers.
//
// It runs the device's five-button setup menu in a terminal, serves the
// configuration over HTTP for companion tools, and reads or writes single
// settings from scripts.
//
// Usage:
//
//	smartthermo [command] [flags]
//
// Running without arguments opens the setup menu.
// See 'smartthermo --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/smartthermo/internal/config"
	"github.com/muurk/smartthermo/internal/logging"
	"github.com/muurk/smartthermo/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "smartthermo",
	Short: "SmartThermo Configuration Utility",
	Long: `A configuration utility for SmartThermo infrared thermometers.

Edits the thermometer settings with the same five-button setup menu the
device shows on its display, serves them over HTTP for companion tools,
and reads or writes single settings from scripts.

If no command is specified, the setup menu opens.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMenu(cmd, args)
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: OS config dir/smartthermo/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); default from "+logging.LogLevelEnvVar+", silent if unset")

	rootCmd.AddCommand(versionCmd)
}

// openStore opens the config file named by --config or the default path.
func openStore(autoSave bool) (*config.Store, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.GetConfigPath()
		if err != nil {
			return nil, err
		}
	}

	store, err := config.Open(config.Options{Path: path, AutoSave: autoSave})
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	return store, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("smartthermo %s (commit: %s)\n", version.Version, version.Commit)
	},
}
