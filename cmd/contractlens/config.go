package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"contractlens/internal/config"
	"contractlens/internal/ui"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			path := configPath
			if path == "" {
				path = config.FindConfigPath()
			}
			if path == "" {
				path = ui.Subtle.Sprint("(defaults)")
			}

			out := cmd.OutOrStdout()
			ui.Banner(out, "configuration")
			ui.KeyValue(out, "File", path)
			ui.KeyValue(out, "Listen", cfg.Server.Addr)
			ui.KeyValue(out, "Analysis API", cfg.Analysis.BaseURL)
			ui.KeyValue(out, "Canvas", fmt.Sprintf("%gx%g", cfg.Canvas.Width, cfg.Canvas.Height))
			ui.KeyValue(out, "Frame interval", cfg.Server.FrameInterval.Duration())
			ui.KeyValue(out, "Stream interval", cfg.Server.StreamInterval.Duration())
			ui.KeyValue(out, "Link distance", cfg.Simulation.LinkDistance)
			ui.KeyValue(out, "Charge", cfg.Simulation.ChargeStrength)
			return nil
		},
	}

	cmd.AddCommand(configInitCmd())
	return cmd
}

func configInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config file with default values",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultConfigPath()
			if len(args) == 1 {
				path = args[0]
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			if err := config.DefaultConfig().Save(path); err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			ui.Good.Fprintf(cmd.OutOrStdout(), "  Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}
