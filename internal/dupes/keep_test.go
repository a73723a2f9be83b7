package dupes_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"imgdedup/internal/dupes"
	"imgdedup/internal/fingerprint"
	"imgdedup/internal/fs"
	"imgdedup/internal/scan"
)

func fingerprintOf(s string) fingerprint.Fingerprint {
	return fingerprint.Fingerprint(s)
}

func writePNG(t *testing.T, fsys *fs.MemoryFS, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.Gray{Y: uint8(x ^ y)})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := fsys.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestParseKeepPolicy(t *testing.T) {
	for _, ok := range []string{"resolution", "first", "oldest"} {
		if _, err := dupes.ParseKeepPolicy(ok); err != nil {
			t.Errorf("ParseKeepPolicy(%q): %v", ok, err)
		}
	}
	if _, err := dupes.ParseKeepPolicy("newest"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestCanonicalFirst(t *testing.T) {
	g := dupes.Group{Files: []scan.File{
		{Rel: "a.jpg"}, {Rel: "b.jpg"}, {Rel: "c.jpg"},
	}}
	s := dupes.Selector{Policy: dupes.KeepFirst}
	if got := s.Canonical(g); got != 0 {
		t.Fatalf("expected index 0, got %d", got)
	}
}

func TestCanonicalHighestResolution(t *testing.T) {
	m := fs.NewMemoryFS()
	m.MkdirAll("base", 0o755)
	writePNG(t, m, "base/small.png", 4, 4)
	writePNG(t, m, "base/large.png", 16, 16)

	g := dupes.Group{Files: []scan.File{
		{Path: "base/large.png", Rel: "large.png"},
		{Path: "base/small.png", Rel: "small.png"},
	}}
	s := dupes.Selector{FS: m, Policy: dupes.KeepResolution}
	if got := s.Canonical(g); got != 0 {
		t.Fatalf("expected large.png (index 0), got %d", got)
	}

	// swapped order must pick the same file
	g = dupes.Group{Files: []scan.File{g.Files[1], g.Files[0]}}
	if got := s.Canonical(g); got != 1 {
		t.Fatalf("expected large.png (index 1), got %d", got)
	}
}

func TestCanonicalResolutionFallsBackToFirst(t *testing.T) {
	m := fs.NewMemoryFS()
	m.MkdirAll("base", 0o755)
	m.WriteFile("base/a.dat", []byte("x"), 0o644)
	m.WriteFile("base/b.dat", []byte("x"), 0o644)

	// neither member is decodable, so path order decides
	g := dupes.Group{Files: []scan.File{
		{Path: "base/a.dat", Rel: "a.dat"},
		{Path: "base/b.dat", Rel: "b.dat"},
	}}
	s := dupes.Selector{FS: m, Policy: dupes.KeepResolution}
	if got := s.Canonical(g); got != 0 {
		t.Fatalf("expected index 0, got %d", got)
	}
}

func TestCanonicalOldestByModTime(t *testing.T) {
	m := fs.NewMemoryFS()
	m.MkdirAll("base", 0o755)
	m.WriteFile("base/new.jpg", []byte("x"), 0o644)
	m.WriteFile("base/old.jpg", []byte("x"), 0o644)

	// no EXIF in either file, so mod time decides
	older := time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

	g := dupes.Group{Files: []scan.File{
		{Path: "base/new.jpg", Rel: "new.jpg", ModTime: newer},
		{Path: "base/old.jpg", Rel: "old.jpg", ModTime: older},
	}}
	s := dupes.Selector{FS: m, Policy: dupes.KeepOldest}
	if got := s.Canonical(g); got != 1 {
		t.Fatalf("expected old.jpg (index 1), got %d", got)
	}
}
