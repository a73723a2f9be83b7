package fingerprint_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"imgdedup/internal/fingerprint"
	"imgdedup/internal/fs"
	"imgdedup/internal/imaging"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func gradient(w, h int) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(255 * x / w)})
		}
	}
	return img
}

func checkerboard(w, h int) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/4+y/4)%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

func TestPerceptualSameImage(t *testing.T) {
	m := fs.NewMemoryFS()
	m.MkdirAll("d/sub", 0o755)

	data := encodePNG(t, gradient(64, 64))
	m.WriteFile("d/a.png", data, 0o644)
	m.WriteFile("d/sub/b.png", data, 0o644)

	fp := &fingerprint.Perceptual{FS: m}

	a, err := fp.File("d/a.png")
	if err != nil {
		t.Fatal(err)
	}
	b, err := fp.File("d/sub/b.png")
	if err != nil {
		t.Fatal(err)
	}
	if a == "" || a != b {
		t.Fatalf("expected identical fingerprints, got %q and %q", a, b)
	}
}

func TestPerceptualDistinctImages(t *testing.T) {
	m := fs.NewMemoryFS()
	m.MkdirAll("d", 0o755)
	m.WriteFile("d/grad.png", encodePNG(t, gradient(64, 64)), 0o644)
	m.WriteFile("d/check.png", encodePNG(t, checkerboard(64, 64)), 0o644)

	fp := &fingerprint.Perceptual{FS: m}

	a, err := fp.File("d/grad.png")
	if err != nil {
		t.Fatal(err)
	}
	b, err := fp.File("d/check.png")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatalf("structurally different images share fingerprint %q", a)
	}
}

func TestPerceptualUnsupported(t *testing.T) {
	m := fs.NewMemoryFS()
	m.MkdirAll("d", 0o755)
	m.WriteFile("d/notes.txt", []byte("plain text"), 0o644)

	fp := &fingerprint.Perceptual{FS: m}
	if _, err := fp.File("d/notes.txt"); !errors.Is(err, imaging.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}
