// Package scan enumerates files under a base directory and fingerprints
// them. Walk order is deterministic (directory entries sorted by name);
// fingerprinting is parallel and read-only.
package scan

import (
	"io"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"imgdedup/internal/fingerprint"
	"imgdedup/internal/fs"
	"imgdedup/internal/notify"
	"imgdedup/internal/progress"
	"imgdedup/internal/util"
)

// File is one enumerated file. Immutable once the scan completes.
type File struct {
	Path        string // path as walked, rooted at the base directory
	Rel         string // path relative to the base directory
	Size        int64
	ModTime     time.Time
	Fingerprint fingerprint.Fingerprint
}

// Warning records a file skipped during scanning.
type Warning struct {
	Path string
	Err  error
}

type Scanner struct {
	FS            fs.FS
	Fingerprinter fingerprint.Fingerprinter
	Notify        *notify.Notifier
	Workers       int

	// Exclude lists cleaned paths to skip entirely, e.g. the move
	// destination when it lies under the base directory, or the cache
	// file.
	Exclude []string

	// ProgressW, when non-nil, receives a live spinner during the
	// fingerprint phase.
	ProgressW io.Writer
}

// Run walks base and fingerprints every regular file found. Per-file
// failures become warnings; they never abort the run.
func (s *Scanner) Run(base string) ([]File, []Warning, error) {
	if s.Notify != nil {
		s.Notify.ScanningDirectory(base)
	}
	start := time.Now()

	var files []File
	var warnings []Warning
	s.walk(base, base, &files, &warnings)

	var tracker *progress.Tracker
	if s.ProgressW != nil {
		tracker = progress.NewTracker(s.ProgressW, len(files), "fingerprinting")
	}

	var mu sync.Mutex
	keep := make([]bool, len(files))
	indices := make([]int, len(files))
	for i := range indices {
		indices[i] = i
	}

	workers := s.Workers
	if workers < 1 {
		workers = util.WorkerCount()
	}

	// errors are folded into warnings inside the callback, so Parallel
	// itself cannot fail
	_ = util.Parallel(indices, workers, func(i int) error {
		sum, err := s.Fingerprinter.File(files[i].Path)
		mu.Lock()
		defer mu.Unlock()
		if tracker != nil {
			tracker.Increment()
		}
		if err != nil {
			warnings = append(warnings, Warning{Path: files[i].Path, Err: err})
			if s.Notify != nil {
				s.Notify.Warn(files[i].Path, err)
			}
			return nil
		}
		files[i].Fingerprint = sum
		keep[i] = true
		return nil
	})

	if tracker != nil {
		tracker.Finish()
	}

	fingerprinted := files[:0]
	for i, f := range files {
		if keep[i] {
			fingerprinted = append(fingerprinted, f)
		}
	}

	// warning order depends on goroutine scheduling; sort for stable output
	sort.Slice(warnings, func(i, j int) bool { return warnings[i].Path < warnings[j].Path })

	if s.Notify != nil {
		s.Notify.ScanComplete(len(fingerprinted), time.Since(start))
	}
	return fingerprinted, warnings, nil
}

func (s *Scanner) walk(dir, base string, files *[]File, warnings *[]Warning) {
	entries, err := s.FS.ReadDir(dir)
	if err != nil {
		*warnings = append(*warnings, Warning{Path: dir, Err: err})
		if s.Notify != nil {
			s.Notify.Warn(dir, err)
		}
		return
	}

	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		if s.excluded(p) {
			continue
		}
		if e.IsDir() {
			s.walk(p, base, files, warnings)
			continue
		}
		if !e.Type().IsRegular() {
			continue
		}

		info, err := e.Info()
		if err != nil {
			*warnings = append(*warnings, Warning{Path: p, Err: err})
			continue
		}
		rel, err := filepath.Rel(base, p)
		if err != nil {
			*warnings = append(*warnings, Warning{Path: p, Err: err})
			continue
		}
		*files = append(*files, File{
			Path:    p,
			Rel:     filepath.ToSlash(rel),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
}

func (s *Scanner) excluded(p string) bool {
	cp := filepath.Clean(p)
	for _, ex := range s.Exclude {
		if filepath.Clean(ex) == cp {
			return true
		}
	}
	return false
}
