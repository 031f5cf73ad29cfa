package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/codemarcinu/steward/cmd/steward/internal"
	"github.com/codemarcinu/steward/internal/config"
)

func TestGlobalFlags_Validate(t *testing.T) {
	tests := []struct {
		name    string
		flags   GlobalFlags
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			flags:   GlobalFlags{OutputFormat: "text"},
			wantErr: false,
		},
		{
			name:    "json format is valid",
			flags:   GlobalFlags{OutputFormat: "json"},
			wantErr: false,
		},
		{
			name:    "unknown format is rejected",
			flags:   GlobalFlags{OutputFormat: "xml"},
			wantErr: true,
		},
		{
			name:    "verbose and quiet conflict",
			flags:   GlobalFlags{OutputFormat: "text", Verbose: true, Quiet: true},
			wantErr: true,
		},
		{
			name:    "verbose alone is fine",
			flags:   GlobalFlags{OutputFormat: "text", Verbose: true},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.flags.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGlobalFlags_IsVerbose(t *testing.T) {
	tests := []struct {
		name     string
		verbose  bool
		quiet    bool
		expected bool
	}{
		{name: "verbose without quiet", verbose: true, quiet: false, expected: true},
		{name: "quiet wins over verbose", verbose: true, quiet: true, expected: false},
		{name: "neither", verbose: false, quiet: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := &GlobalFlags{Verbose: tt.verbose, Quiet: tt.quiet}
			if got := flags.IsVerbose(); got != tt.expected {
				t.Errorf("IsVerbose() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGlobalFlags_GetOutputFormat(t *testing.T) {
	flags := &GlobalFlags{OutputFormat: "json"}
	if flags.GetOutputFormat() != internal.FormatJSON {
		t.Errorf("expected json format, got %v", flags.GetOutputFormat())
	}

	flags = &GlobalFlags{OutputFormat: "text"}
	if flags.GetOutputFormat() != internal.FormatText {
		t.Errorf("expected text format, got %v", flags.GetOutputFormat())
	}
}

func TestGlobalFlags_ResolveHomeDir(t *testing.T) {
	t.Run("flag wins over environment", func(t *testing.T) {
		t.Setenv("STEWARD_HOME", "/env/home")
		flags := &GlobalFlags{HomeDir: "/flag/home"}
		if got := flags.ResolveHomeDir(); got != "/flag/home" {
			t.Errorf("ResolveHomeDir() = %q, want %q", got, "/flag/home")
		}
	})

	t.Run("environment wins over default", func(t *testing.T) {
		t.Setenv("STEWARD_HOME", "/env/home")
		flags := &GlobalFlags{}
		if got := flags.ResolveHomeDir(); got != "/env/home" {
			t.Errorf("ResolveHomeDir() = %q, want %q", got, "/env/home")
		}
	})

	t.Run("default when nothing is set", func(t *testing.T) {
		t.Setenv("STEWARD_HOME", "")
		flags := &GlobalFlags{}
		if got := flags.ResolveHomeDir(); got != config.DefaultHomeDir() {
			t.Errorf("ResolveHomeDir() = %q, want default %q", got, config.DefaultHomeDir())
		}
	})

	t.Run("tilde in environment value is expanded", func(t *testing.T) {
		home, err := os.UserHomeDir()
		if err != nil {
			t.Fatal(err)
		}
		t.Setenv("STEWARD_HOME", "~/steward-test")
		flags := &GlobalFlags{}
		if got, want := flags.ResolveHomeDir(), filepath.Join(home, "steward-test"); got != want {
			t.Errorf("ResolveHomeDir() = %q, want %q", got, want)
		}
	})
}

func TestGlobalFlags_ResolveConfigPath(t *testing.T) {
	flags := &GlobalFlags{ConfigFile: "/etc/steward.yaml"}
	if got := flags.ResolveConfigPath(); got != "/etc/steward.yaml" {
		t.Errorf("ResolveConfigPath() = %q, want explicit flag value", got)
	}

	flags = &GlobalFlags{HomeDir: "/custom/home"}
	want := filepath.Join("/custom/home", "config.yaml")
	if got := flags.ResolveConfigPath(); got != want {
		t.Errorf("ResolveConfigPath() = %q, want %q", got, want)
	}
}
