package fingerprint

import (
	"fmt"

	"github.com/corona10/goimagehash"

	"imgdedup/internal/fs"
	"imgdedup/internal/imaging"
)

// Perceptual fingerprints the decoded pixels with a 64-bit perception
// hash. Two encodings of the same image (say, a HEIC original and its JPEG
// export) map to the same fingerprint. Grouping is by hash equality.
type Perceptual struct {
	FS        fs.FS
	MaxPixels int
}

func (p *Perceptual) Method() string { return MethodPerceptual }

func (p *Perceptual) File(path string) (Fingerprint, error) {
	img, err := imaging.DecodeFile(p.FS, path, p.MaxPixels)
	if err != nil {
		return "", err
	}
	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return "", fmt.Errorf("phash %s: %w", path, err)
	}
	return Fingerprint(hash.ToString()), nil
}
