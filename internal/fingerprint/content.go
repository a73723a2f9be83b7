package fingerprint

import (
	"fmt"
	"io"

	"github.com/zeebo/xxh3"

	"imgdedup/internal/fs"
)

// Content fingerprints the raw bytes of a file with xxh3-128, streamed so
// large files never sit in memory.
type Content struct {
	FS fs.FS
}

func (c *Content) Method() string { return MethodContent }

func (c *Content) File(path string) (Fingerprint, error) {
	f, err := c.FS.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := xxh3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return Fingerprint(fmt.Sprintf("%x", h.Sum128().Bytes())), nil
}
