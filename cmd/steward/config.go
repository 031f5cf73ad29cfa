package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/codemarcinu/steward/cmd/steward/internal"
	"github.com/codemarcinu/steward/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage steward configuration",
	Long: `View and validate the steward configuration.

Configuration is stored in YAML format at ~/.steward/config.yaml by
default; values like api_key may reference environment variables as
${VAR_NAME}.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Long: `Display the complete configuration after defaults and environment
variable interpolation are applied. Missing files show pure defaults.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(globalFlags)
		if err != nil {
			return err
		}

		display := *cfg
		if display.Model.APIKey != "" {
			display.Model.APIKey = "[REDACTED]"
		}

		if globalFlags.GetOutputFormat() == internal.FormatJSON {
			return globalFlags.formatter().PrintJSON(display)
		}

		out, err := yaml.Marshal(display)
		if err != nil {
			return fmt.Errorf("failed to marshal config to YAML: %w", err)
		}
		cmd.Print(string(out))
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Validate the configuration file for correctness.

This checks:
  - YAML syntax is valid
  - Values are within acceptable ranges
  - Threshold and connection pool orderings hold`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := globalFlags.ResolveConfigPath()

		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return fmt.Errorf("config file does not exist: %s\nRun 'steward init' to create a default configuration", configPath)
		}

		loader := config.NewLoader(config.NewValidator())
		if _, err := loader.Load(configPath); err != nil {
			return err
		}

		return globalFlags.formatter().PrintSuccess("configuration is valid")
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}
