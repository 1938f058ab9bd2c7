package sections

import (
	"log/slog"
	"sync"
	"time"
)

// Cache holds the current section snapshot and reloads it only when the
// tracked source files changed after the last load. Every chapter built in a
// pass sees the same snapshot.
type Cache struct {
	mu       sync.RWMutex
	loader   Loader
	now      func() time.Time
	current  Provider
	lastLoad time.Time
}

// NewCache creates an empty cache backed by loader.
func NewCache(loader Loader) *Cache {
	return &Cache{loader: loader, now: time.Now}
}

// LastLoadTime returns when the snapshot was last loaded (zero before the first load).
func (c *Cache) LastLoadTime() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastLoad
}

// ReloadIfStale reloads the snapshot when nothing is loaded yet or when
// sourceModTime is newer than the last load. It reports whether it reloaded.
func (c *Cache) ReloadIfStale(sourceModTime time.Time) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil && !sourceModTime.After(c.lastLoad) {
		return false, nil
	}
	provider, err := c.loader.Load()
	if err != nil {
		return false, err
	}
	c.current = provider
	c.lastLoad = c.now()
	slog.Info("Reloaded code sections", slog.Time("source_mod", sourceModTime))
	return true, nil
}

// FindAll implements Provider against the current snapshot.
func (c *Cache) FindAll(chapterTitle string) map[int]*Section {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return map[int]*Section{}
	}
	return c.current.FindAll(chapterTitle)
}
