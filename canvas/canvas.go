/*
Package canvas implements a lossless mapping between Super Mario Maker levels
and RGB images.

Every 16-bit field is spread over the three color channels of a single pixel,
six bits in red and green and four bits in blue, each shifted up by two so
the field stays visible. A level occupies LevelHeight rows starting at a
given row offset. The first row holds the header: game mode, course theme,
time limit, auto scroll, flags and the four little-endian bytes of the width.
Below it are nine bands of GridHeight rows, each band holding one 16-bit
field of the object placed at that grid cell. An object is placed by dividing
its world position by Scale, so one object survives per cell; when several
land in the same cell the one with the greatest Z wins.

An object type of zero marks an empty cell, so objects with type zero do not
survive a round trip.
*/
package canvas

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
)

const (
	// Scale is the number of world units per grid cell
	Scale = 160

	// GridWidth is the number of addressable grid columns
	GridWidth = 240
	// GridHeight is the number of addressable grid rows, and the height of
	// a band
	GridHeight = 27

	// HeaderWidth is the number of pixels used by the level header
	HeaderWidth = 9

	// LevelHeight is the number of rows occupied by one level
	LevelHeight = 1 + GridHeight*numBands
)

var (
	// ErrTooSmall is returned when the image cannot hold a level at the
	// requested offset
	ErrTooSmall = errors.New("canvas: image too small")
	// ErrOverlap is returned when two levels in a layout share rows
	ErrOverlap = errors.New("canvas: level offsets overlap")
	// ErrColorModel is returned when encoding into an image that cannot
	// hold 8-bit RGB channels exactly
	ErrColorModel = errors.New("canvas: image must be *image.RGBA or *image.NRGBA")
)

var black = color.RGBA{0x00, 0x00, 0x00, 0xff}

func checkBounds(r image.Rectangle, y int) error {
	if r.Dx() < GridWidth || y < 0 || y+LevelHeight > r.Dy() {
		return ErrTooSmall
	}
	return nil
}

func checkColorModel(m draw.Image) error {
	switch m.(type) {
	case *image.RGBA, *image.NRGBA:
		return nil
	}
	return ErrColorModel
}

func setPixel(m draw.Image, x, y int, c color.RGBA) {
	b := m.Bounds()
	switch m := m.(type) {
	case *image.RGBA:
		m.SetRGBA(b.Min.X+x, b.Min.Y+y, c)
	case *image.NRGBA:
		m.SetNRGBA(b.Min.X+x, b.Min.Y+y, color.NRGBA{c.R, c.G, c.B, c.A})
	}
}

func pixelAt(m image.Image, x, y int) color.RGBA {
	b := m.Bounds()
	if rm, ok := m.(*image.RGBA); ok {
		return rm.RGBAAt(b.Min.X+x, b.Min.Y+y)
	}
	return color.RGBAModel.Convert(m.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
}

// Layout describes the size of an image and the row offsets of the levels
// stacked in it. The first offset is the main level, the second, if present,
// the sub level.
type Layout struct {
	Width   int
	Height  int
	Offsets []int
}

var (
	// SingleLayout holds one level in a 256 by 256 image
	SingleLayout = Layout{Width: 256, Height: 256, Offsets: []int{0}}
	// CourseLayout holds a main and a sub level in a 256 by 512 image
	CourseLayout = Layout{Width: 256, Height: 512, Offsets: []int{0, 256}}
)

// Validate checks every level fits in the image and no two levels overlap
func (l Layout) Validate() error {
	if len(l.Offsets) == 0 {
		return errors.New("canvas: layout has no levels")
	}
	r := image.Rect(0, 0, l.Width, l.Height)
	for _, y := range l.Offsets {
		if err := checkBounds(r, y); err != nil {
			return err
		}
	}
	for i, y := range l.Offsets {
		for _, o := range l.Offsets[i+1:] {
			if o < y+LevelHeight && y < o+LevelHeight {
				return ErrOverlap
			}
		}
	}
	return nil
}

// NewImage returns an opaque black image sized for the layout
func (l Layout) NewImage() *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, l.Width, l.Height))
	draw.Draw(m, m.Bounds(), &image.Uniform{black}, image.Point{}, draw.Src)
	return m
}
