//go:build linux

package main

import "os/exec"

func startOBSCommand() *exec.Cmd {
	return exec.Command("obs")
}

func killOBSCommand() *exec.Cmd {
	return exec.Command("pkill", "-x", "obs")
}
