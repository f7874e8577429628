package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sambabib/eol-checker/pkg/config"
	"github.com/sambabib/eol-checker/pkg/logger"
)

// Version is set during build using ldflags
var Version = "dev"

var (
	verbose    bool
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "eolcheck",
	Short:   "Checks tool versions against endoflife.date",
	Long:    `EOL Checker looks up every tool in an inventory file on endoflife.date, classifies how urgently each one needs an upgrade, and writes HTML, JSON and SARIF reports.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed output with EOL dates")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: search for "+config.FileName+")")
}

// loadConfig reads --config if given, otherwise the nearest config file above the working directory.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadConfig(configPath)
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.DefaultConfig(), nil
	}
	return config.FindAndLoadConfig(wd)
}
