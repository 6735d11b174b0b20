// Package system holds host-level helpers: worker pool sizing, input
// discovery and frame buffer reuse.
package system

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
)

// DefaultWorkers picks a render worker count: one per CPU, capped so
// that concurrent frame buffers fit comfortably in available memory.
// Every worker holds roughly two RGBA copies of a frame at a time.
func DefaultWorkers(frameWidth, frameHeight, frameCount int) int {
	workers := runtime.NumCPU()
	if workers > frameCount {
		workers = frameCount
	}
	if workers < 1 {
		workers = 1
	}

	perWorker := uint64(frameWidth) * uint64(frameHeight) * 4 * 2
	if perWorker == 0 {
		return workers
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		// Leave half of available memory to everything else.
		budget := vm.Available / 2
		if limit := budget / perWorker; limit > 0 && uint64(workers) > limit {
			workers = int(limit)
		}
	}

	if workers < 1 {
		workers = 1
	}
	return workers
}

// FindLatestGIF returns the most recently modified .gif in a directory.
func FindLatestGIF(dir string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(strings.ToLower(f.Name()), ".gif") {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no GIF files found in %s", dir)
	}
	return latestFile, nil
}
