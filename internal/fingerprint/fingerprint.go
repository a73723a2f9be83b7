// Package fingerprint derives comparable values from file content. Files
// sharing a fingerprint are considered duplicates.
package fingerprint

import (
	"fmt"

	"imgdedup/internal/fs"
)

// Fingerprint is a derived value used to test file equality.
type Fingerprint string

const (
	// MethodContent is a byte-exact 128-bit xxh3 over the raw file.
	MethodContent = "content"

	// MethodPerceptual is a perceptual hash over the decoded pixels, so
	// duplicates survive re-encoding.
	MethodPerceptual = "phash"
)

// Fingerprinter computes a Fingerprint for a file.
type Fingerprinter interface {
	Method() string
	File(path string) (Fingerprint, error)
}

// New returns the Fingerprinter for a method name.
func New(method string, fsys fs.FS, maxPixels int) (Fingerprinter, error) {
	switch method {
	case MethodContent:
		return &Content{FS: fsys}, nil
	case MethodPerceptual:
		return &Perceptual{FS: fsys, MaxPixels: maxPixels}, nil
	default:
		return nil, fmt.Errorf("unknown fingerprint method %q", method)
	}
}
