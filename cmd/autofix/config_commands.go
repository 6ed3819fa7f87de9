package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"autofix/internal/config"
)

const defaultConfigName = "autofix.toml"

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				target = defaultConfigName
			}
			target, err := config.ExpandPath(target)
			if err != nil {
				return fmt.Errorf("resolve config path: %w", err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set amazon_tag, ebay_cid and carparts_pid (and export BITLY_TOKEN to shorten links) before building.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file (default ./autofix.toml)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", ctx.configPath)
			fmt.Fprintf(out, "Data file:   %s\n", cfg.Paths.DataFile)
			fmt.Fprintf(out, "Output dir:  %s\n", cfg.Paths.OutputDir)
			fmt.Fprintf(out, "Shortening:  %s\n", yesNo(cfg.ShortenerEnabled()))
			for _, placeholder := range placeholderKeys(cfg) {
				fmt.Fprintf(out, "Warning: %s still has its placeholder value\n", placeholder)
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

// placeholderKeys lists affiliate settings left at the sample values.
func placeholderKeys(cfg *config.Config) []string {
	defaults := config.Default()
	var keys []string
	if cfg.AmazonTag == defaults.AmazonTag {
		keys = append(keys, "amazon_tag")
	}
	if cfg.EbayCID == defaults.EbayCID {
		keys = append(keys, "ebay_cid")
	}
	if cfg.CarpartsPID == defaults.CarpartsPID {
		keys = append(keys, "carparts_pid")
	}
	return keys
}
