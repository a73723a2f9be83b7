package fs

import (
	"io"
	"os"
)

// OSFS is the production implementation of FS backed by the real
// filesystem.
type OSFS struct{}

func NewOSFS() *OSFS {
	return &OSFS{}
}

func (r *OSFS) Open(path string) (io.ReadSeekCloser, error) {
	return os.Open(path)
}

func (r *OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (r *OSFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (r *OSFS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (r *OSFS) Remove(path string) error {
	return os.Remove(path)
}

func (r *OSFS) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

func (r *OSFS) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

func (r *OSFS) ReadDir(path string) ([]os.DirEntry, error) {
	return os.ReadDir(path)
}

func (r *OSFS) CreateTempFile(dir, pattern string) (io.WriteCloser, string, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, "", err
	}
	return f, f.Name(), nil
}

func (r *OSFS) IsNotExist(err error) bool {
	return os.IsNotExist(err)
}

func (r *OSFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (r *OSFS) IsDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
