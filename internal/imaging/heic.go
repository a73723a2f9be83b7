package imaging

import (
	"image"
	"io"

	"github.com/jdeng/goheif"
)

// heicDecoder decodes HEIC/HEIF containers via goheif.
type heicDecoder struct{}

func (heicDecoder) Extensions() []string { return []string{".heic", ".heif"} }

func (heicDecoder) Decode(r io.Reader) (image.Image, error) {
	return goheif.Decode(r)
}

func (heicDecoder) DecodeConfig(r io.Reader) (image.Config, error) {
	return goheif.DecodeConfig(r)
}

func init() {
	Register(heicDecoder{})
}
