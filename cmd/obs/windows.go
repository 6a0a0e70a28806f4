//go:build windows

package main

import "os/exec"

func startOBSCommand() *exec.Cmd {
	cmd := exec.Command("C:\\Program Files\\obs-studio\\bin\\64bit\\obs64.exe")
	// obs64.exe refuses to start unless run from its own directory.
	cmd.Dir = "C:\\Program Files\\obs-studio\\bin\\64bit"
	return cmd
}

func killOBSCommand() *exec.Cmd {
	return exec.Command("taskkill", "/t", "/f", "/im", "obs64.exe")
}
