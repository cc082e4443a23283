package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"contractlens/internal/config"
	"contractlens/internal/ui"
)

var version = "0.1.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:           "contractlens",
	Short:         "contractlens - smart contract dependency graphs",
	Long:          ui.Brand.Sprint("contractlens") + " renders the dependency network of a smart contract\n" + ui.Subtle.Sprint("Fetch analyses, lay them out and draw them as SVG"),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("contractlens {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: search standard locations)")

	rootCmd.AddCommand(
		renderCmd(),
		fetchCmd(),
		interactionsCmd(),
		configCmd(),
	)
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		ui.Bad.Fprintf(os.Stderr, "contractlens: %v\n", err)
	}
	return err
}

// loadConfig reads the --config file or searches the standard locations
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, _, err = config.LoadFromPath(configPath)
	} else {
		cfg, _, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
