// Package internal holds CLI plumbing shared by the steward commands:
// exit code mapping and output formatting.
package internal

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/codemarcinu/steward/internal/types"
)

// Exit code constants for the CLI
const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitError indicates a general error
	ExitError = 1
	// ExitTimeout indicates the operation timed out
	ExitTimeout = 3
	// ExitCancelled indicates the operation was cancelled
	ExitCancelled = 4
	// ExitConfigError indicates a configuration error
	ExitConfigError = 10
	// ExitModelError indicates the model provider was unreachable or misconfigured
	ExitModelError = 11
	// ExitDatabaseError indicates a database error
	ExitDatabaseError = 12
)

// HandleError prints err to the command's error output and returns the
// exit code the process should finish with.
func HandleError(cmd *cobra.Command, err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, context.Canceled) {
		cmd.PrintErrln("Operation cancelled")
		return ExitCancelled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		cmd.PrintErrln("Operation timed out")
		return ExitTimeout
	}

	cmd.PrintErrln("Error:", err)

	var stewardErr *types.Error
	if errors.As(err, &stewardErr) {
		if verboseFlag := cmd.Flag("verbose"); verboseFlag != nil && verboseFlag.Changed && stewardErr.Cause != nil {
			cmd.PrintErrln("Cause:", stewardErr.Cause)
		}
		return mapErrorCode(stewardErr.Code)
	}

	return ExitError
}

// mapErrorCode maps pipeline error codes to CLI exit codes.
func mapErrorCode(code types.ErrorCode) int {
	switch code {
	case types.CONFIG_LOAD_FAILED, types.CONFIG_VALIDATION_FAILED:
		return ExitConfigError

	case types.MODEL_UNAVAILABLE, types.MODEL_TIMEOUT:
		return ExitModelError

	case types.DB_OPEN_FAILED, types.DB_MIGRATION_FAILED, types.DB_QUERY_FAILED,
		types.STORE_APPEND_FAILED, types.STORE_QUERY_FAILED:
		return ExitDatabaseError

	case types.EXECUTION_HANDLER_TIMEOUT:
		return ExitTimeout

	default:
		return ExitError
	}
}

// IsVerbose checks if verbose mode was requested via environment variable
// or flag. Used by panic recovery, which runs before cobra has parsed
// anything.
func IsVerbose() bool {
	if os.Getenv("STEWARD_VERBOSE") != "" {
		return true
	}
	for _, arg := range os.Args {
		if arg == "-v" || arg == "--verbose" {
			return true
		}
	}
	return false
}
