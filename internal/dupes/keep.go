package dupes

import (
	"fmt"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"imgdedup/internal/fs"
	"imgdedup/internal/imaging"
	"imgdedup/internal/scan"
)

// KeepPolicy selects the canonical copy of a duplicate group.
type KeepPolicy string

const (
	// KeepResolution retains the member with the most pixels; members
	// whose resolution cannot be read lose to any that can.
	KeepResolution KeepPolicy = "resolution"

	// KeepFirst retains the lexicographically first member.
	KeepFirst KeepPolicy = "first"

	// KeepOldest retains the member with the earliest EXIF capture time,
	// falling back to the filesystem mod time.
	KeepOldest KeepPolicy = "oldest"
)

func ParseKeepPolicy(s string) (KeepPolicy, error) {
	switch KeepPolicy(s) {
	case KeepResolution, KeepFirst, KeepOldest:
		return KeepPolicy(s), nil
	default:
		return "", fmt.Errorf("unknown keep policy %q (want resolution, first, or oldest)", s)
	}
}

// Selector applies a KeepPolicy to a group.
type Selector struct {
	FS     fs.FS
	Policy KeepPolicy
}

// Canonical returns the index of the member to retain. Members arrive
// sorted by relative path and all ties break toward the lower index, so
// the choice is deterministic.
func (s Selector) Canonical(g Group) int {
	switch s.Policy {
	case KeepFirst:
		return 0
	case KeepOldest:
		return s.oldest(g)
	default:
		return s.highestResolution(g)
	}
}

func (s Selector) highestResolution(g Group) int {
	best, bestRes := 0, -1
	for i, f := range g.Files {
		res, err := imaging.Resolution(s.FS, f.Path)
		if err != nil {
			res = -1
		}
		if res > bestRes {
			best, bestRes = i, res
		}
	}
	return best
}

func (s Selector) oldest(g Group) int {
	best := 0
	bestTime := s.captureTime(g.Files[0])
	for i := 1; i < len(g.Files); i++ {
		if t := s.captureTime(g.Files[i]); t.Before(bestTime) {
			best, bestTime = i, t
		}
	}
	return best
}

// captureTime prefers the EXIF capture timestamp and falls back to the
// mod time for files without usable EXIF data.
func (s Selector) captureTime(f scan.File) time.Time {
	r, err := s.FS.Open(f.Path)
	if err != nil {
		return f.ModTime
	}
	defer r.Close()

	x, err := exif.Decode(r)
	if err != nil {
		return f.ModTime
	}
	t, err := x.DateTime()
	if err != nil {
		return f.ModTime
	}
	return t
}
