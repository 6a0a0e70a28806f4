package main

import (
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hrko/obs-dynamic-path/internal/config"
	"github.com/hrko/obs-dynamic-path/internal/logging"
)

var binaries = []string{"obs-dynamic-path", "wrapper", "log-viewer"}

func main() {
	log, _, err := logging.New("info")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	srcDir := "."
	if len(os.Args) > 1 {
		srcDir = os.Args[1]
	}
	installDir := getInstallDir()
	if err := removeDir(installDir); err != nil {
		log.Fatal("error removing directory", zap.Error(err))
	}
	if err := makeDir(installDir); err != nil {
		log.Fatal("error creating directory", zap.Error(err))
	}
	if err := copyBinaries(srcDir, installDir, binaries); err != nil {
		log.Fatal("error copying binaries", zap.Error(err))
	}
	log.Info("binaries installed", zap.String("dir", installDir))

	cfgPath := config.DefaultPath()
	written, err := config.WriteDefaults(cfgPath)
	if err != nil {
		log.Fatal("error writing config", zap.Error(err))
	}
	if written {
		log.Info("default config written", zap.String("file", cfgPath))
	} else {
		log.Info("existing config kept", zap.String("file", cfgPath))
	}
}

func removeDir(dir string) error {
	return os.RemoveAll(dir)
}

func makeDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

func executableName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

func copyBinaries(srcDir, destDir string, names []string) error {
	for _, name := range names {
		file := executableName(name)
		if err := copyFile(filepath.Join(srcDir, file), filepath.Join(destDir, file)); err != nil {
			return errors.Wrapf(err, "copy %s", file)
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	info, err := srcFile.Stat()
	if err != nil {
		return err
	}
	destFile, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, srcFile)
	return err
}
