package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/codemarcinu/steward/cmd/steward/internal"
	"github.com/codemarcinu/steward/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "steward",
	Short: "Steward - natural language home assistant",
	Long: `Steward turns a single natural-language message into exactly one
validated tool call: note taking, bookmarks, spending summaries, pantry
tracking, weather, knowledge search, and URL summaries.

Every processed message leaves an audit record; inspect them with
'steward records'.`,
	PersistentPreRunE: preRun,
	SilenceUsage:      true,
	SilenceErrors:     true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command with signal handling
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

// preRun validates global flags before any command runs.
func preRun(cmd *cobra.Command, args []string) error {
	flags, err := ParseGlobalFlags(cmd)
	if err != nil {
		return err
	}

	// init, version, and help must work before a config file exists.
	switch cmd.Name() {
	case "init", "version", "help":
		return nil
	}

	configFile := flags.ResolveConfigPath()
	if _, err := os.Stat(configFile); err != nil {
		if os.IsNotExist(err) && flags.IsVerbose() {
			cmd.PrintErrf("Config file not found at %s (run 'steward init' to create)\n", configFile)
		}
	}

	return nil
}

func init() {
	RegisterGlobalFlags(rootCmd)

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if globalFlags.GetOutputFormat() == internal.FormatJSON {
			return globalFlags.formatter().PrintJSON(version.Info())
		}
		cmd.Println(version.String())
		return nil
	},
}
