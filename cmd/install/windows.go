//go:build windows

package main

import "os"

func getInstallDir() string {
	return os.Getenv("LOCALAPPDATA") + "\\obs-dynamic-path"
}
