package internal

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"

	"github.com/codemarcinu/steward/internal/types"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		checkOutput  func(t *testing.T, output string)
	}{
		{
			name:         "nil error",
			err:          nil,
			expectedCode: ExitSuccess,
			checkOutput:  func(t *testing.T, output string) {},
		},
		{
			name:         "context canceled",
			err:          context.Canceled,
			expectedCode: ExitCancelled,
			checkOutput: func(t *testing.T, output string) {
				if output != "Operation cancelled\n" {
					t.Errorf("expected cancellation message, got %q", output)
				}
			},
		},
		{
			name:         "context deadline exceeded",
			err:          context.DeadlineExceeded,
			expectedCode: ExitTimeout,
			checkOutput: func(t *testing.T, output string) {
				if output != "Operation timed out\n" {
					t.Errorf("expected timeout message, got %q", output)
				}
			},
		},
		{
			name:         "config load failure",
			err:          types.NewError(types.CONFIG_LOAD_FAILED, "failed to read config file"),
			expectedCode: ExitConfigError,
			checkOutput:  func(t *testing.T, output string) {},
		},
		{
			name:         "config validation failure",
			err:          types.NewError(types.CONFIG_VALIDATION_FAILED, "bad values"),
			expectedCode: ExitConfigError,
			checkOutput:  func(t *testing.T, output string) {},
		},
		{
			name:         "model unavailable",
			err:          types.NewError(types.MODEL_UNAVAILABLE, "connection refused"),
			expectedCode: ExitModelError,
			checkOutput:  func(t *testing.T, output string) {},
		},
		{
			name:         "record append failure",
			err:          types.NewError(types.STORE_APPEND_FAILED, "disk full"),
			expectedCode: ExitDatabaseError,
			checkOutput:  func(t *testing.T, output string) {},
		},
		{
			name:         "database open failure",
			err:          types.NewError(types.DB_OPEN_FAILED, "permission denied"),
			expectedCode: ExitDatabaseError,
			checkOutput:  func(t *testing.T, output string) {},
		},
		{
			name:         "wrapped pipeline error keeps its code",
			err:          types.WrapError(types.STORE_APPEND_FAILED, "insert call record", errors.New("database is locked")),
			expectedCode: ExitDatabaseError,
			checkOutput:  func(t *testing.T, output string) {},
		},
		{
			name:         "generic error",
			err:          errors.New("unknown error"),
			expectedCode: ExitError,
			checkOutput: func(t *testing.T, output string) {
				if output != "Error: unknown error\n" {
					t.Errorf("expected generic error message, got %q", output)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			cmd := &cobra.Command{}
			cmd.SetErr(buf)

			exitCode := HandleError(cmd, tt.err)
			if exitCode != tt.expectedCode {
				t.Errorf("expected exit code %d, got %d", tt.expectedCode, exitCode)
			}

			tt.checkOutput(t, buf.String())
		})
	}
}

func TestHandleError_VerbosePrintsCause(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetErr(buf)
	cmd.Flags().BoolP("verbose", "v", false, "")
	if err := cmd.Flags().Set("verbose", "true"); err != nil {
		t.Fatal(err)
	}

	err := types.WrapError(types.DB_OPEN_FAILED, "open sqlite database", errors.New("unable to open database file"))
	exitCode := HandleError(cmd, err)

	if exitCode != ExitDatabaseError {
		t.Errorf("expected exit code %d, got %d", ExitDatabaseError, exitCode)
	}
	output := buf.String()
	if !bytes.Contains([]byte(output), []byte("Cause: unable to open database file")) {
		t.Errorf("expected cause in verbose output, got %q", output)
	}
}
