// Package appdir resolves the on-disk layout under ~/.chatview.
package appdir

import (
	"os"
	"path/filepath"
)

// BaseDir returns ~/.chatview.
func BaseDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".chatview")
}

// DBPath returns the chat store database path.
func DBPath() string {
	return filepath.Join(BaseDir(), "chats.db")
}

// LogDir returns the log directory.
func LogDir() string {
	return filepath.Join(BaseDir(), "logs")
}

// LogPath returns the daemon log file path.
func LogPath() string {
	return filepath.Join(LogDir(), "chatviewd.log")
}

// ConfigPath returns the config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// EnsureDirs creates the directory tree with owner-only permissions.
func EnsureDirs() error {
	for _, d := range []string{BaseDir(), LogDir()} {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}
