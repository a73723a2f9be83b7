package fingerprint_test

import (
	"testing"
	"time"

	"imgdedup/internal/fingerprint"
	"imgdedup/internal/fs"
)

// countingFP counts how many times the underlying computation runs.
type countingFP struct {
	inner fingerprint.Fingerprinter
	calls int
}

func (c *countingFP) Method() string { return c.inner.Method() }
func (c *countingFP) File(path string) (fingerprint.Fingerprint, error) {
	c.calls++
	return c.inner.File(path)
}

func TestCacheHitAndStaleness(t *testing.T) {
	m := fs.NewMemoryFS()
	m.MkdirAll("d", 0o755)
	m.WriteFile("d/a.jpg", []byte("payload"), 0o644)

	counter := &countingFP{inner: &fingerprint.Content{FS: m}}
	cache := fingerprint.NewCache(m, "cache.json", counter)

	first, err := cache.File("d/a.jpg")
	if err != nil {
		t.Fatal(err)
	}
	second, err := cache.File("d/a.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatalf("cache returned different fingerprint: %s vs %s", first, second)
	}
	if counter.calls != 1 {
		t.Fatalf("expected 1 computation, got %d", counter.calls)
	}

	// touching the file invalidates the entry
	if err := m.SetModTime("d/a.jpg", time.Now().Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.File("d/a.jpg"); err != nil {
		t.Fatal(err)
	}
	if counter.calls != 2 {
		t.Fatalf("expected recomputation after mtime change, got %d calls", counter.calls)
	}
}

func TestCachePersistence(t *testing.T) {
	m := fs.NewMemoryFS()
	m.MkdirAll("d", 0o755)
	m.WriteFile("d/a.jpg", []byte("payload"), 0o644)

	counter := &countingFP{inner: &fingerprint.Content{FS: m}}
	cache := fingerprint.NewCache(m, "cache.json", counter)
	want, err := cache.File("d/a.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if err := cache.Save(); err != nil {
		t.Fatal(err)
	}
	if !m.Exists("cache.json") {
		t.Fatal("cache file not written")
	}

	// a fresh cache backed by the same file serves the hit without
	// recomputing
	counter2 := &countingFP{inner: &fingerprint.Content{FS: m}}
	cache2 := fingerprint.NewCache(m, "cache.json", counter2)
	got, err := cache2.File("d/a.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("reloaded cache returned %s, want %s", got, want)
	}
	if counter2.calls != 0 {
		t.Fatalf("expected 0 computations after reload, got %d", counter2.calls)
	}
}

func TestCacheForget(t *testing.T) {
	m := fs.NewMemoryFS()
	m.MkdirAll("d", 0o755)
	m.WriteFile("d/a.jpg", []byte("payload"), 0o644)

	counter := &countingFP{inner: &fingerprint.Content{FS: m}}
	cache := fingerprint.NewCache(m, "cache.json", counter)
	if _, err := cache.File("d/a.jpg"); err != nil {
		t.Fatal(err)
	}

	cache.Forget("d/a.jpg")
	if _, err := cache.File("d/a.jpg"); err != nil {
		t.Fatal(err)
	}
	if counter.calls != 2 {
		t.Fatalf("expected recomputation after Forget, got %d calls", counter.calls)
	}
}
