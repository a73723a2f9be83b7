package util

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"imgdedup/internal/fs"
)

// WriteJSON writes a JSON file atomically: the data goes to a temp file in
// the target directory which is then renamed over the destination.
func WriteJSON(fsys fs.FS, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmpFile, tmpPath, err := fsys.CreateTempFile(dir, "tmp-*.json")
	if err != nil {
		return err
	}
	defer fsys.Remove(tmpPath) // ensure cleanup on error

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	return fsys.Rename(tmpPath, path)
}

// ReadJSON reads a JSON file and unmarshals it into v.
func ReadJSON(fsys fs.FS, path string, v any) error {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// SortedKeys returns the keys of a map sorted alphabetically.
func SortedKeys[M ~map[string]V, V any](m M) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

// WorkerCount returns the number of workers for concurrent operations.
func WorkerCount() int {
	return runtime.NumCPU()
}

// Parallel runs fn concurrently for each item in inputs, limited by
// workerLimit. All errors are collected and joined, not just the first.
func Parallel[T any](inputs []T, workerLimit int, fn func(T) error) error {
	if len(inputs) == 0 {
		return nil
	}
	if workerLimit < 1 {
		workerLimit = 1
	}

	sem := make(chan struct{}, workerLimit)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs []error

	for _, in := range inputs {
		sem <- struct{}{}
		wg.Add(1)
		go func(x T) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := fn(x); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(in)
	}

	wg.Wait()
	return errors.Join(errs...)
}
