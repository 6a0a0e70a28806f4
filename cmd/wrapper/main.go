package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"

	"github.com/hrko/obs-dynamic-path/internal/logging"
)

const binName = "obs-dynamic-path"

func main() {
	log, _, err := logging.New("info")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	exe, err := os.Executable()
	if err != nil {
		log.Fatal("failed to get executable path", zap.Error(err))
	}
	name := binName
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	commandName := filepath.Join(filepath.Dir(exe), name)
	cmd := exec.Command(commandName, os.Args[1:]...)

	tempFile, err := os.CreateTemp("", logging.FilePattern)
	if err != nil {
		log.Fatal("failed to create temp file", zap.Error(err))
	}
	defer tempFile.Close()

	cmd.Stdout = tempFile
	cmd.Stderr = tempFile

	if err := cmd.Run(); err != nil {
		log.Error("plugin exited", zap.Error(err))
	}

	log.Info("log written", zap.String("file", tempFile.Name()))
}
