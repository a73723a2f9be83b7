package fingerprint

import (
	"sync"

	"imgdedup/internal/fs"
	"imgdedup/internal/util"
)

// cacheEntry is one persisted fingerprint. Size and mtime validate it; a
// mismatch means the file changed and the entry is stale.
type cacheEntry struct {
	Size    int64                  `json:"size"`
	ModTime int64                  `json:"mtime_unix_nano"`
	Sums    map[string]Fingerprint `json:"sums"`
}

// Cache wraps a Fingerprinter with a JSON file of fingerprints keyed by
// path, reused between runs. Safe for concurrent use.
type Cache struct {
	fsys  fs.FS
	path  string
	inner Fingerprinter

	mu      sync.Mutex
	entries map[string]cacheEntry
	dirty   bool
}

// NewCache loads the cache file at path. A missing or unreadable cache is
// not an error; the cache simply starts empty.
func NewCache(fsys fs.FS, path string, inner Fingerprinter) *Cache {
	c := &Cache{
		fsys:    fsys,
		path:    path,
		inner:   inner,
		entries: make(map[string]cacheEntry),
	}
	var entries map[string]cacheEntry
	if err := util.ReadJSON(fsys, path, &entries); err == nil && entries != nil {
		c.entries = entries
	}
	return c
}

func (c *Cache) Method() string { return c.inner.Method() }

func (c *Cache) File(path string) (Fingerprint, error) {
	fi, err := c.fsys.Stat(path)
	if err != nil {
		return "", err
	}
	size, mtime := fi.Size(), fi.ModTime().UnixNano()
	method := c.inner.Method()

	c.mu.Lock()
	entry, ok := c.entries[path]
	if ok && entry.Size == size && entry.ModTime == mtime {
		if sum, ok := entry.Sums[method]; ok {
			c.mu.Unlock()
			return sum, nil
		}
	}
	c.mu.Unlock()

	sum, err := c.inner.File(path)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	entry, ok = c.entries[path]
	if !ok || entry.Size != size || entry.ModTime != mtime {
		entry = cacheEntry{Size: size, ModTime: mtime, Sums: map[string]Fingerprint{}}
	}
	entry.Sums[method] = sum
	c.entries[path] = entry
	c.dirty = true
	c.mu.Unlock()

	return sum, nil
}

// Forget drops entries for paths that no longer exist under their recorded
// location, e.g. after a move or delete run.
func (c *Cache) Forget(path string) {
	c.mu.Lock()
	if _, ok := c.entries[path]; ok {
		delete(c.entries, path)
		c.dirty = true
	}
	c.mu.Unlock()
}

// Save persists the cache if anything changed since load.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}
	if err := util.WriteJSON(c.fsys, c.path, c.entries); err != nil {
		return err
	}
	c.dirty = false
	return nil
}
