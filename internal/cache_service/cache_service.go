package cache_service

import (
	"context"
	"sync"
	"time"

	"fileicon/internal/icon_service"
)

const (
	cleanupInterval = 5 * time.Minute
	maxEntryIdle    = time.Hour
)

type cacheKey struct {
	path   string
	width  uint
	height uint
}

type cacheEntry struct {
	image        *icon_service.Image
	accessCount  uint32
	lastAccessed time.Time
}

// PngCache is an in-memory cache of extracted icons keyed by path and
// dimensions. Safe to use across goroutines. Entries never touch disk.
//
// Eviction prefers the least accessed entry, breaking ties on last access
// time. A background janitor additionally drops entries idle for over an
// hour.
type PngCache struct {
	mu      sync.RWMutex
	entries map[cacheKey]*cacheEntry
	maxSize int
	stop    chan struct{}
	once    sync.Once
}

func NewPngCache(maxSize int) *PngCache {
	cache := &PngCache{
		entries: map[cacheKey]*cacheEntry{},
		maxSize: maxSize,
		stop:    make(chan struct{}),
	}
	go cache.janitor()
	return cache
}

// Close stops the janitor goroutine. Entries stay usable afterwards.
func (c *PngCache) Close() {
	c.once.Do(func() { close(c.stop) })
}

// Get returns the cached icon for (path, width, height), extracting and
// caching it on a miss. Extraction failures are not cached, every failed
// lookup is surfaced and retried only when the caller calls again.
func (c *PngCache) Get(ctx context.Context, path string, width, height uint) (*icon_service.Image, error) {
	key := cacheKey{path: path, width: width, height: height}

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if ok {
		c.touch(key)
		return entry.image, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have filled the entry between the locks
	if entry, ok := c.entries[key]; ok {
		entry.accessCount++
		entry.lastAccessed = time.Now()
		return entry.image, nil
	}

	image, err := icon_service.TryNewFromFile(ctx, path, width, height)
	if err != nil {
		return nil, err
	}

	if len(c.entries) >= c.maxSize {
		c.removeLeastAccessed()
	}
	c.entries[key] = &cacheEntry{
		image:        image,
		accessCount:  1,
		lastAccessed: time.Now(),
	}
	return image, nil
}

// Stats returns the access count and last access time for an entry.
func (c *PngCache) Stats(path string, width, height uint) (uint32, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[cacheKey{path: path, width: width, height: height}]
	if !ok {
		return 0, time.Time{}, false
	}
	return entry.accessCount, entry.lastAccessed, true
}

func (c *PngCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *PngCache) IsEmpty() bool {
	return c.Len() == 0
}

func (c *PngCache) touch(key cacheKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[key]; ok {
		entry.accessCount++
		entry.lastAccessed = time.Now()
	}
}

// removeLeastAccessed evicts the entry with the lowest access count, oldest
// access first on ties. Caller holds the write lock.
func (c *PngCache) removeLeastAccessed() {
	var victim cacheKey
	found := false
	for key, entry := range c.entries {
		if !found {
			victim = key
			found = true
			continue
		}
		current := c.entries[victim]
		if entry.accessCount < current.accessCount ||
			(entry.accessCount == current.accessCount && entry.lastAccessed.Before(current.lastAccessed)) {
			victim = key
		}
	}
	if found {
		delete(c.entries, victim)
	}
}

func (c *PngCache) janitor() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.cleanupOldEntries()
		case <-c.stop:
			return
		}
	}
}

func (c *PngCache) cleanupOldEntries() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.entries {
		if now.Sub(entry.lastAccessed) >= maxEntryIdle {
			delete(c.entries, key)
		}
	}
}
