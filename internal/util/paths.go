// Package util holds small helpers shared across steward packages.
package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a filesystem path the way users write them in
// config files and flags:
//   - "~" and "~/..." expand to the user home directory
//   - "$VAR" and "${VAR}" expand from the environment
//   - the result is cleaned
//
// An empty path stays empty.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if strings.HasPrefix(path, "~/") || path == "~" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		if path == "~" {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[2:])
	}

	path = os.ExpandEnv(path)

	return filepath.Clean(path), nil
}
