package config

import (
	"os"
	"path/filepath"
)

// defaultConfigPath returns the default configuration file path.
//
// Returns: ~/.config/tbuck/config.yaml.
func defaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./tbuck.yaml"
	}

	return filepath.Join(homeDir, ".config", "tbuck", "config.yaml")
}

// defaultPositionsDBPath returns the default read-offset database path
// used when follow mode asks for persistent positions.
//
// Returns: ~/.config/tbuck/positions.db.
func defaultPositionsDBPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./positions.db"
	}

	return filepath.Join(homeDir, ".config", "tbuck", "positions.db")
}

// DefaultPositionsDBPath exposes the default positions database path
// so follow mode can enable persistence without naming a file.
func DefaultPositionsDBPath() string {
	return defaultPositionsDBPath()
}
