// Package imaging provides image decoding behind a per-format capability
// interface, so fingerprinting depends only on the interface and not on any
// particular decoding library.
package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"imgdedup/internal/fs"
)

// ErrUnsupported is returned for files whose extension no registered
// decoder claims.
var ErrUnsupported = errors.New("unsupported image format")

// TooLargeError is returned for images exceeding the configured pixel cap.
type TooLargeError struct {
	Pixels int
	Limit  int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("image too large: %d pixels (limit %d)", e.Pixels, e.Limit)
}

// Decoder decodes one image format.
type Decoder interface {
	// Extensions lists the lower-case file extensions (with dot) this
	// decoder claims.
	Extensions() []string
	Decode(r io.Reader) (image.Image, error)
	DecodeConfig(r io.Reader) (image.Config, error)
}

var registry = map[string]Decoder{}

// Register adds a decoder for each extension it claims. Later
// registrations win, so callers can override a built-in.
func Register(d Decoder) {
	for _, ext := range d.Extensions() {
		registry[ext] = d
	}
}

// Lookup returns the decoder claiming the path's extension.
func Lookup(path string) (Decoder, bool) {
	d, ok := registry[strings.ToLower(filepath.Ext(path))]
	return d, ok
}

// Supported reports whether any registered decoder claims the path.
func Supported(path string) bool {
	_, ok := Lookup(path)
	return ok
}

// funcDecoder adapts a pair of decode functions to the Decoder interface.
type funcDecoder struct {
	exts         []string
	decode       func(io.Reader) (image.Image, error)
	decodeConfig func(io.Reader) (image.Config, error)
}

func (d funcDecoder) Extensions() []string { return d.exts }

func (d funcDecoder) Decode(r io.Reader) (image.Image, error) {
	return d.decode(r)
}

func (d funcDecoder) DecodeConfig(r io.Reader) (image.Config, error) {
	return d.decodeConfig(r)
}

func init() {
	Register(funcDecoder{[]string{".jpg", ".jpeg"}, jpeg.Decode, jpeg.DecodeConfig})
	Register(funcDecoder{[]string{".png"}, png.Decode, png.DecodeConfig})
	Register(funcDecoder{[]string{".gif"}, gif.Decode, gif.DecodeConfig})
	Register(funcDecoder{[]string{".webp"}, webp.Decode, webp.DecodeConfig})
	Register(funcDecoder{[]string{".bmp"}, bmp.Decode, bmp.DecodeConfig})
	Register(funcDecoder{[]string{".tif", ".tiff"}, tiff.Decode, tiff.DecodeConfig})
}

// DecodeFile decodes an image through the registry. Images whose header
// reports more than maxPixels pixels are rejected before the full decode.
func DecodeFile(fsys fs.FS, path string, maxPixels int) (image.Image, error) {
	dec, ok := Lookup(path)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupported)
	}

	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := dec.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if maxPixels > 0 && cfg.Width*cfg.Height > maxPixels {
		return nil, &TooLargeError{Pixels: cfg.Width * cfg.Height, Limit: maxPixels}
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind %s: %w", path, err)
	}
	img, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Resolution returns the pixel count (width times height) of an image
// without decoding its pixels.
func Resolution(fsys fs.FS, path string) (int, error) {
	dec, ok := Lookup(path)
	if !ok {
		return 0, fmt.Errorf("%s: %w", path, ErrUnsupported)
	}

	f, err := fsys.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := dec.DecodeConfig(f)
	if err != nil {
		return 0, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg.Width * cfg.Height, nil
}
