// Package config resolves paths, credentials and dotenv files for the CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading ~ and $VAR references in a path.
func ExpandPath(path string) string {
	switch {
	case path == "~":
		path = underHome(path, "")
	case strings.HasPrefix(path, "~/"):
		path = underHome(path, path[2:])
	}
	return os.ExpandEnv(path)
}

func underHome(path, rest string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}

// Dir returns the cashflow configuration directory. XDG_CONFIG_HOME wins
// over ~/.config.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "cashflow"), nil
}
