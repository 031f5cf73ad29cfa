package main

import (
	"github.com/spf13/cobra"

	"github.com/codemarcinu/steward/internal/setup"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize steward configuration and database",
	Long: `Initialize steward by creating:
- The home directory (~/.steward by default)
- A commented default configuration file
- The SQLite database with its schema

Running init again is safe; pass --force to recreate the config file
and database from scratch.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing configuration and database")
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	homeDir := globalFlags.ResolveHomeDir()

	cmd.Printf("Initializing steward in %s...\n", homeDir)

	initializer := setup.NewDefaultInitializer()
	result, err := initializer.Initialize(ctx, setup.Options{
		HomeDir: homeDir,
		Force:   initForce,
	})
	if err != nil {
		return err
	}

	formatter := globalFlags.formatter()
	if err := formatter.PrintSuccess("steward initialized"); err != nil {
		return err
	}
	cmd.Printf("  Home directory: %s\n", result.HomeDir)
	cmd.Printf("  Config created: %v\n", result.ConfigCreated)
	cmd.Printf("  Database created: %v\n", result.DatabaseCreated)

	if len(result.Warnings) > 0 {
		cmd.Println("\nWarnings:")
		for _, w := range result.Warnings {
			cmd.Printf("  - %s\n", w)
		}
	}

	return nil
}
