package build

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// latestCodeMod returns the newest modification time among the book's
// source files and section manifests.
func (b *Builder) latestCodeMod() (time.Time, error) {
	var newest time.Time
	for _, pattern := range b.cfg.Paths.Sources {
		mod, err := LatestModTime(pattern)
		if err != nil {
			return time.Time{}, err
		}
		newest = latest(newest, mod)
	}
	manifests, err := b.loader.LatestModTime()
	if err != nil {
		return time.Time{}, err
	}
	return latest(newest, manifests), nil
}

// LatestModTime returns the modification time of the most recently modified
// file matching pattern, or the zero time when nothing matches.
func LatestModTime(pattern string) (time.Time, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return time.Time{}, fmt.Errorf("glob %s: %w", pattern, err)
	}
	var newest time.Time
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return time.Time{}, fmt.Errorf("stat %s: %w", path, err)
		}
		newest = latest(newest, info.ModTime())
	}
	return newest, nil
}

func latest(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
