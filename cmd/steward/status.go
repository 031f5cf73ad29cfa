package main

import (
	"github.com/spf13/cobra"

	"github.com/codemarcinu/steward/cmd/steward/internal"
	"github.com/codemarcinu/steward/internal/setup"
	"github.com/codemarcinu/steward/pkg/version"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the steward installation",
	Long: `Check that the home directory, configuration file, and database are
present and usable. Nothing is created or modified.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	result, err := setup.NewDefaultInitializer().Validate(ctx, globalFlags.ResolveHomeDir())
	if err != nil {
		return err
	}

	if globalFlags.GetOutputFormat() == internal.FormatJSON {
		return globalFlags.formatter().PrintJSON(result)
	}

	cmd.Println(version.String())
	for _, check := range result.Checks {
		mark := "✓"
		if !check.OK {
			mark = "✗"
		}
		cmd.Printf("  %s %-8s %s\n", mark, check.Component, check.Detail)
	}

	if !result.Valid {
		cmd.Println("\nInstallation incomplete. Run 'steward init' to fix it.")
	}
	return nil
}
