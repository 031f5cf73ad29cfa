package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codemarcinu/steward/cmd/steward/internal"
	"github.com/codemarcinu/steward/internal/config"
	"github.com/codemarcinu/steward/internal/util"
)

// GlobalFlags holds global flags available to all commands
type GlobalFlags struct {
	Verbose      bool
	Quiet        bool
	OutputFormat string
	ConfigFile   string
	HomeDir      string
}

var globalFlags = &GlobalFlags{}

// RegisterGlobalFlags registers persistent flags on the root command
func RegisterGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().BoolVarP(&globalFlags.Quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVarP(&globalFlags.OutputFormat, "output", "o", "text", "Output format (text|json)")
	cmd.PersistentFlags().StringVar(&globalFlags.ConfigFile, "config", "", "Path to config file (default: $STEWARD_HOME/config.yaml)")
	cmd.PersistentFlags().StringVar(&globalFlags.HomeDir, "home", "", "Steward home directory (default: ~/.steward)")
}

// ParseGlobalFlags validates global flags from the command
func ParseGlobalFlags(cmd *cobra.Command) (*GlobalFlags, error) {
	if err := globalFlags.Validate(); err != nil {
		return nil, err
	}
	return globalFlags, nil
}

// Validate checks flag combinations.
func (f *GlobalFlags) Validate() error {
	if f.OutputFormat != string(internal.FormatText) && f.OutputFormat != string(internal.FormatJSON) {
		return fmt.Errorf("invalid output format %q (must be text or json)", f.OutputFormat)
	}
	if f.Verbose && f.Quiet {
		return fmt.Errorf("--verbose and --quiet cannot be used together")
	}
	return nil
}

// GetOutputFormat returns the parsed OutputFormat enum
func (f *GlobalFlags) GetOutputFormat() internal.OutputFormat {
	if f.OutputFormat == string(internal.FormatJSON) {
		return internal.FormatJSON
	}
	return internal.FormatText
}

// IsVerbose returns true if verbose mode is enabled
func (f *GlobalFlags) IsVerbose() bool {
	return f.Verbose && !f.Quiet
}

// IsQuiet returns true if quiet mode is enabled
func (f *GlobalFlags) IsQuiet() bool {
	return f.Quiet
}

// ResolveHomeDir returns the home directory, preferring the --home flag,
// then STEWARD_HOME, then the default. Tilde and environment variables
// are expanded, so STEWARD_HOME="~/steward" works even though the shell
// never saw it.
func (f *GlobalFlags) ResolveHomeDir() string {
	raw := config.DefaultHomeDir()
	if f.HomeDir != "" {
		raw = f.HomeDir
	} else if env := os.Getenv("STEWARD_HOME"); env != "" {
		raw = env
	}
	if expanded, err := util.ExpandPath(raw); err == nil {
		return expanded
	}
	return raw
}

// ResolveConfigPath returns the config file path, preferring the
// --config flag over the conventional location under the home directory.
func (f *GlobalFlags) ResolveConfigPath() string {
	if f.ConfigFile != "" {
		if expanded, err := util.ExpandPath(f.ConfigFile); err == nil {
			return expanded
		}
		return f.ConfigFile
	}
	return config.DefaultConfigPath(f.ResolveHomeDir())
}

// formatter builds an output formatter for the selected format.
func (f *GlobalFlags) formatter() internal.Formatter {
	return internal.NewFormatter(f.GetOutputFormat(), os.Stdout)
}
