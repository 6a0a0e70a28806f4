package main

import (
	"os"
	"os/exec"

	"go.uber.org/zap"

	"github.com/hrko/obs-dynamic-path/internal/logging"
)

func main() {
	if len(os.Args) < 2 {
		os.Exit(1)
	}
	log, _, err := logging.New("info")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	var cmd *exec.Cmd
	switch os.Args[1] {
	case "start":
		cmd = startOBSCommand()
	case "stop":
		cmd = killOBSCommand()
	default:
		log.Error("unknown command", zap.String("command", os.Args[1]))
		os.Exit(1)
	}
	if err := cmd.Start(); err != nil {
		log.Error("failed to run command", zap.Strings("args", cmd.Args), zap.Error(err))
		os.Exit(1)
	}
}
