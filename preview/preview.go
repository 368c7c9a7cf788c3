/*
Package preview renders level images as small palette reduced GIF files.

Level images are lossless and mostly dark, which makes them awkward to browse.
A preview trades exactness for something that can be scanned by eye: the image
is reduced to a limited palette with median cut quantization and enlarged by
an integer factor with nearest neighbour scaling so each grid cell stays
sharp. Previews cannot be decoded back into levels.
*/
package preview

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"
)

const (
	// DefaultColors is the palette size used when none is given
	DefaultColors = 64
	// DefaultScale is the enlargement factor used when none is given
	DefaultScale = 2

	maxColors = 256
	maxScale  = 16
)

var (
	errColors = errors.New("preview: palette must have between 2 and 256 colors")
	errScale  = errors.New("preview: scale must be between 1 and 16")
)

// Options control the size and palette of a preview
type Options struct {
	Colors int
	Scale  int
}

func (o *Options) defaults() error {
	if o.Colors == 0 {
		o.Colors = DefaultColors
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Colors < 2 || o.Colors > maxColors {
		return errColors
	}
	if o.Scale < 1 || o.Scale > maxScale {
		return errScale
	}
	return nil
}

// Render returns the palette reduced and scaled version of m
func Render(m image.Image, o *Options) (*image.Paletted, error) {
	var opts Options
	if o != nil {
		opts = *o
	}
	if err := opts.defaults(); err != nil {
		return nil, err
	}

	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, opts.Colors), m)

	b := m.Bounds()
	pm := image.NewPaletted(image.Rect(0, 0, b.Dx()*opts.Scale, b.Dy()*opts.Scale), p)
	draw.NearestNeighbor.Scale(pm, pm.Bounds(), m, b, draw.Src, nil)

	return pm, nil
}

// Encode writes the preview of m to w in GIF format
func Encode(w io.Writer, m image.Image, o *Options) error {
	pm, err := Render(m, o)
	if err != nil {
		return err
	}
	return gif.Encode(w, pm, &gif.Options{NumColors: len(pm.Palette)})
}
