//go:build darwin

package main

import "os/exec"

func startOBSCommand() *exec.Cmd {
	return exec.Command("open", "-a", "OBS")
}

func killOBSCommand() *exec.Cmd {
	return exec.Command("pkill", "-x", "OBS")
}
