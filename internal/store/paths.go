package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// JournalFileName is the SQLite database file inside the corpsim directory.
const JournalFileName = "journal.db"

// GlobalCorpsimPath returns the path to the global .corpsim directory.
// On Unix: ~/.corpsim
// On Windows: %USERPROFILE%\.corpsim
func GlobalCorpsimPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".corpsim"), nil
}

// EnsureGlobalCorpsimDir creates the global .corpsim directory if it doesn't exist.
// Returns nil if the directory already exists or was successfully created.
func EnsureGlobalCorpsimDir() error {
	globalPath, err := GlobalCorpsimPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(globalPath, 0755); err != nil {
		return fmt.Errorf("failed to create global .corpsim directory: %w", err)
	}

	return nil
}

// DefaultJournalPath returns ~/.corpsim/journal.db.
func DefaultJournalPath() (string, error) {
	dir, err := GlobalCorpsimPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, JournalFileName), nil
}
