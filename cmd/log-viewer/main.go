package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/hrko/obs-dynamic-path/internal/logging"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "clear" {
		for _, file := range getLogFiles(false) {
			if err := os.Remove(file); err != nil {
				fmt.Println("Error removing file:", err)
			}
		}
		return
	}

	files := getLogFiles(true)
	latest := newestFile(files)
	if latest == "" {
		fmt.Println("No log files found.")
		return
	}

	file, err := os.Open(latest)
	if err != nil {
		fmt.Println("Error opening file:", err)
		return
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			time.Sleep(time.Second / 10)
			continue
		}
		fmt.Print(line)
	}
}

func newestFile(files []string) string {
	type entry struct {
		path    string
		modTime time.Time
	}
	var entries []entry
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		entries = append(entries, entry{f, info.ModTime()})
	}
	if len(entries) == 0 {
		return ""
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].modTime.After(entries[j].modTime)
	})
	return entries[0].path
}

func getLogFiles(wait bool) []string {
	logPattern := filepath.Join(os.TempDir(), logging.FilePattern)
	if !wait {
		files, err := filepath.Glob(logPattern)
		if err != nil {
			fmt.Println("Error finding log files:", err)
			return nil
		}
		return files
	}
	fmt.Print("Waiting for log files")
	for {
		files, err := filepath.Glob(logPattern)
		if err != nil {
			fmt.Println("Error finding log files:", err)
			return nil
		}
		if len(files) > 0 {
			fmt.Println()
			return files
		}
		fmt.Print(".")
		time.Sleep(time.Second / 10)
	}
}
