package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DataHome returns the root directory for modgraph data.
// Priority: $MODGRAPH_HOME -> $XDG_DATA_HOME/modgraph -> ~/.local/share/modgraph (Unix) / %LOCALAPPDATA%\modgraph (Windows)
func DataHome() (string, error) {
	if home := os.Getenv("MODGRAPH_HOME"); home != "" {
		return home, nil
	}

	if runtime.GOOS != "windows" {
		if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
			return filepath.Join(xdgData, "modgraph"), nil
		}
	}

	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(userHome, "AppData", "Local", "modgraph"), nil
	default:
		return filepath.Join(userHome, ".local", "share", "modgraph"), nil
	}
}

// DefaultDBPath returns the snapshot database location under home.
func DefaultDBPath(home string) string {
	return filepath.Join(home, "snapshots.db")
}

// EnsureDirectories creates the data home and the database directory.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Home, filepath.Dir(c.DBPath)} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
