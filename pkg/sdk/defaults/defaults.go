// Package defaults holds the locations and fallbacks shared by the CLI and
// the mock controller.
package defaults

import (
	"os"
	"path/filepath"
)

const (
	// ControllerPort is where the controller's administration channel listens
	// unless configured otherwise.
	ControllerPort = "31000"
	// ControllerAddress is the mock controller's default listen address.
	ControllerAddress = "127.0.0.1:" + ControllerPort
	// Destination is the configuration file written when neither a flag nor
	// the context names one.
	Destination = "easyConfig.json"

	appDir = "minerconf"
)

// ConfigPath returns the CLI config file. It respects XDG_CONFIG_HOME,
// falling back to ~/.config/minerconf/config.yaml.
func ConfigPath() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), appDir, "config.yaml")
}

// HistoryPath returns the commit history database. It respects
// XDG_STATE_HOME, falling back to ~/.local/state/minerconf/history.db.
func HistoryPath() string {
	return filepath.Join(xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state")), appDir, "history.db")
}

func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fallback
	}
	return filepath.Join(home, fallback)
}
