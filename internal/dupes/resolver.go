package dupes

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"syscall"

	"imgdedup/internal/fs"
	"imgdedup/internal/notify"
	"imgdedup/internal/scan"
)

// Action is what happens to the non-canonical members of each group.
type Action string

const (
	ActionList   Action = "list"
	ActionMove   Action = "move"
	ActionDelete Action = "delete"
)

func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionList, ActionMove, ActionDelete:
		return Action(s), nil
	default:
		return "", fmt.Errorf("unknown action %q (want list, move, or delete)", s)
	}
}

// Mutates reports whether the action touches the filesystem.
func (a Action) Mutates() bool { return a != ActionList }

// Result counts what the resolver did.
type Result struct {
	Groups     int // duplicate groups found
	Duplicates int // non-canonical members across all groups
	Acted      int // files moved or deleted (0 for list)
	Skipped    int // files skipped due to per-file errors or conflicts
}

// Resolver applies one action to every duplicate group, serially. Each
// file's action is independent: a failure is reported and skipped, never
// retried, and never aborts the run.
type Resolver struct {
	FS          fs.FS
	Notify      *notify.Notifier
	Action      Action
	Destination string
	Selector    Selector

	// OnRemoved is invoked for every path that left its original
	// location, letting the fingerprint cache drop the entry.
	OnRemoved func(path string)
}

// Resolve walks the groups in order and applies the action to every
// member except the canonical one.
func (r *Resolver) Resolve(groups []Group) Result {
	res := Result{Groups: len(groups)}

	for _, g := range groups {
		canonical := r.Selector.Canonical(g)

		if r.Notify != nil {
			paths := make([]string, len(g.Files))
			for i, f := range g.Files {
				paths[i] = f.Path
			}
			r.Notify.FoundGroup(string(g.Fingerprint), paths, canonical)
		}

		for i, f := range g.Files {
			if i == canonical {
				continue
			}
			res.Duplicates++

			switch r.Action {
			case ActionList:
				if r.Notify != nil {
					r.Notify.Listed(f.Path)
				}

			case ActionMove:
				dst, err := r.moveOne(f)
				if err != nil {
					r.warn(f.Path, err)
					res.Skipped++
					continue
				}
				res.Acted++
				if r.OnRemoved != nil {
					r.OnRemoved(f.Path)
				}
				if r.Notify != nil {
					r.Notify.Moved(f.Path, dst)
				}

			case ActionDelete:
				if err := r.FS.Remove(f.Path); err != nil {
					r.warn(f.Path, fmt.Errorf("delete: %w", err))
					res.Skipped++
					continue
				}
				res.Acted++
				if r.OnRemoved != nil {
					r.OnRemoved(f.Path)
				}
				if r.Notify != nil {
					r.Notify.Deleted(f.Path)
				}
			}
		}
	}

	return res
}

// moveOne relocates a duplicate under the destination root, recreating
// its path relative to the base directory. An existing file at the target
// is never overwritten; the member is skipped instead.
func (r *Resolver) moveOne(f scan.File) (string, error) {
	dst := filepath.Join(r.Destination, filepath.FromSlash(f.Rel))

	if r.FS.Exists(dst) {
		return "", fmt.Errorf("move: destination %s already exists, skipping", dst)
	}
	if err := r.FS.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("move: create destination dir: %w", err)
	}

	err := r.FS.Rename(f.Path, dst)
	if err == nil {
		return dst, nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return "", fmt.Errorf("move: %w", err)
	}

	// destination on another device; copy then remove
	if err := r.copyFile(f.Path, dst); err != nil {
		return "", fmt.Errorf("move: %w", err)
	}
	if err := r.FS.Remove(f.Path); err != nil {
		return "", fmt.Errorf("move: remove source after copy: %w", err)
	}
	return dst, nil
}

func (r *Resolver) copyFile(src, dst string) error {
	in, err := r.FS.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, tmpPath, err := r.FS.CreateTempFile(filepath.Dir(dst), "tmp-move-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		r.FS.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		r.FS.Remove(tmpPath)
		return err
	}
	if err := r.FS.Rename(tmpPath, dst); err != nil {
		r.FS.Remove(tmpPath)
		return err
	}
	return nil
}

func (r *Resolver) warn(path string, err error) {
	if r.Notify != nil {
		r.Notify.Warn(path, err)
	}
}
