//go:build !windows

package main

import (
	"os"
	"path/filepath"
)

func getInstallDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "obs-dynamic-path")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "obs-dynamic-path")
}
