package fs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// MemoryFS is a pure in-memory filesystem for tests.
type MemoryFS struct {
	files map[string]*memFile
	dirs  map[string]struct{}

	// FailRenameWith, when non-nil, makes every Rename fail with this
	// error. Tests use it to simulate cross-device moves.
	FailRenameWith error

	tmpSeq int
}

type memFile struct {
	data    []byte
	modTime time.Time
}

func NewMemoryFS() *MemoryFS {
	f := &MemoryFS{
		files: make(map[string]*memFile),
		dirs:  make(map[string]struct{}),
	}
	f.dirs["/"] = struct{}{}
	f.dirs["."] = struct{}{}
	return f
}

// normalize paths
func clean(p string) string {
	if p == "" {
		return "."
	}
	return filepath.ToSlash(filepath.Clean(p))
}

func (f *MemoryFS) ensureDirExists(p string) error {
	p = clean(p)
	if _, ok := f.dirs[p]; !ok {
		return iofs.ErrNotExist
	}
	return nil
}

func (f *MemoryFS) Open(p string) (io.ReadSeekCloser, error) {
	p = clean(p)
	mf, ok := f.files[p]
	if !ok {
		return nil, iofs.ErrNotExist
	}
	return &memReadSeekCloser{Reader: bytes.NewReader(mf.data)}, nil
}

type memReadSeekCloser struct {
	*bytes.Reader
}

func (m *memReadSeekCloser) Close() error { return nil }

func (f *MemoryFS) ReadFile(p string) ([]byte, error) {
	p = clean(p)
	mf, ok := f.files[p]
	if !ok {
		return nil, iofs.ErrNotExist
	}
	return append([]byte(nil), mf.data...), nil
}

func (f *MemoryFS) WriteFile(p string, data []byte, perm os.FileMode) error {
	p = clean(p)
	dir := path.Dir(p)
	if err := f.ensureDirExists(dir); err != nil {
		return fmt.Errorf("write: dir %q does not exist", dir)
	}
	f.files[p] = &memFile{data: append([]byte(nil), data...), modTime: time.Now()}
	return nil
}

func (f *MemoryFS) MkdirAll(p string, perm os.FileMode) error {
	p = clean(p)
	parts := strings.Split(p, "/")
	cur := ""
	if strings.HasPrefix(p, "/") {
		cur = "/"
		f.dirs["/"] = struct{}{}
	}
	for _, seg := range parts {
		if seg == "" || seg == "." {
			continue
		}
		cur = path.Join(cur, seg)
		f.dirs[cur] = struct{}{}
	}
	return nil
}

func (f *MemoryFS) Remove(p string) error {
	p = clean(p)
	if _, ok := f.files[p]; ok {
		delete(f.files, p)
		return nil
	}
	if _, ok := f.dirs[p]; ok {
		delete(f.dirs, p)
		return nil
	}
	return iofs.ErrNotExist
}

func (f *MemoryFS) Rename(oldp, newp string) error {
	if f.FailRenameWith != nil {
		return f.FailRenameWith
	}
	oldp, newp = clean(oldp), clean(newp)

	if mf, ok := f.files[oldp]; ok {
		if f.ensureDirExists(path.Dir(newp)) != nil {
			return iofs.ErrNotExist
		}
		delete(f.files, oldp)
		f.files[newp] = mf
		return nil
	}

	if _, ok := f.dirs[oldp]; ok {
		delete(f.dirs, oldp)
		f.dirs[newp] = struct{}{}
		return nil
	}

	return iofs.ErrNotExist
}

func (f *MemoryFS) Stat(p string) (os.FileInfo, error) {
	p = clean(p)
	if mf, ok := f.files[p]; ok {
		return &fakeInfo{
			name:    path.Base(p),
			size:    int64(len(mf.data)),
			modTime: mf.modTime,
		}, nil
	}
	if _, ok := f.dirs[p]; ok {
		return &fakeInfo{name: path.Base(p), dir: true}, nil
	}
	return nil, iofs.ErrNotExist
}

// ReadDir lists the immediate children of a directory sorted by name,
// matching os.ReadDir semantics.
func (f *MemoryFS) ReadDir(p string) ([]os.DirEntry, error) {
	p = clean(p)
	if _, ok := f.dirs[p]; !ok {
		return nil, iofs.ErrNotExist
	}

	seen := map[string]bool{}
	var entries []os.DirEntry

	child := func(full string) (string, bool) {
		if full == p {
			return "", false
		}
		var rel string
		if p == "." {
			rel = full
		} else {
			prefix := p
			if !strings.HasSuffix(prefix, "/") {
				prefix += "/"
			}
			if !strings.HasPrefix(full, prefix) {
				return "", false
			}
			rel = full[len(prefix):]
		}
		name, _, _ := strings.Cut(rel, "/")
		return name, name != ""
	}

	for full, mf := range f.files {
		name, ok := child(full)
		if !ok || seen[name] {
			continue
		}
		if full != joinDir(p, name) {
			// deeper than one level; the dirs loop reports the child dir
			continue
		}
		seen[name] = true
		entries = append(entries, fakeDirEntry{
			name:    name,
			size:    int64(len(mf.data)),
			modTime: mf.modTime,
		})
	}
	for full := range f.dirs {
		name, ok := child(full)
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		entries = append(entries, fakeDirEntry{name: name, isDir: true})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

func joinDir(dir, name string) string {
	if dir == "." {
		return name
	}
	return path.Join(dir, name)
}

func (f *MemoryFS) CreateTempFile(dir, pattern string) (io.WriteCloser, string, error) {
	dir = clean(dir)
	if err := f.ensureDirExists(dir); err != nil {
		return nil, "", err
	}
	f.tmpSeq++
	name := strings.Replace(pattern, "*", fmt.Sprintf("%06d", f.tmpSeq), 1)
	tmpPath := joinDir(dir, name)

	buf := &bytes.Buffer{}
	wc := &memWriteCloser{
		buf: buf,
		onClose: func() {
			f.files[clean(tmpPath)] = &memFile{data: buf.Bytes(), modTime: time.Now()}
		},
	}
	return wc, tmpPath, nil
}

type memWriteCloser struct {
	buf     *bytes.Buffer
	onClose func()
}

func (m *memWriteCloser) Write(p []byte) (int, error) { return m.buf.Write(p) }
func (m *memWriteCloser) Close() error {
	if m.onClose != nil {
		m.onClose()
	}
	return nil
}

func (f *MemoryFS) IsNotExist(err error) bool { return errors.Is(err, iofs.ErrNotExist) }
func (f *MemoryFS) IsDir(p string) bool       { _, ok := f.dirs[clean(p)]; return ok }

func (f *MemoryFS) Exists(p string) bool {
	p = clean(p)
	_, f1 := f.files[p]
	_, d1 := f.dirs[p]
	return f1 || d1
}

// SetModTime overrides a file's modification time. Tests use it to
// exercise cache staleness.
func (f *MemoryFS) SetModTime(p string, t time.Time) error {
	mf, ok := f.files[clean(p)]
	if !ok {
		return iofs.ErrNotExist
	}
	mf.modTime = t
	return nil
}

// Helpers

type fakeInfo struct {
	name    string
	size    int64
	modTime time.Time
	dir     bool
}

func (f *fakeInfo) Name() string        { return f.name }
func (f *fakeInfo) Size() int64         { return f.size }
func (f *fakeInfo) Mode() iofs.FileMode { return 0o644 }
func (f *fakeInfo) ModTime() time.Time  { return f.modTime }
func (f *fakeInfo) IsDir() bool         { return f.dir }
func (f *fakeInfo) Sys() interface{}    { return nil }

type fakeDirEntry struct {
	name    string
	isDir   bool
	size    int64
	modTime time.Time
}

func (d fakeDirEntry) Name() string        { return d.name }
func (d fakeDirEntry) IsDir() bool         { return d.isDir }
func (d fakeDirEntry) Type() iofs.FileMode { return 0 }

func (d fakeDirEntry) Info() (os.FileInfo, error) {
	return &fakeInfo{name: d.name, size: d.size, modTime: d.modTime, dir: d.isDir}, nil
}
