// Package config reads mkvfat defaults from the user configuration
// directory, such as the default volume label or geometry. Flags
// override anything read here.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Typically ~/.config/mkvfat on Linux
// Typically ~/Library/Application\ Support/mkvfat on macOS/Darwin
func mkvfatConfigDir() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, "mkvfat"), nil
}

// ReadDefault returns the trimmed contents of the named file in the
// mkvfat config dir, e.g. ReadDefault("label"), or "" when the file
// or the config dir does not exist.
func ReadDefault(baseName string) string {
	dir, err := mkvfatConfigDir()
	if err != nil {
		return ""
	}
	b, err := os.ReadFile(filepath.Join(dir, baseName))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
