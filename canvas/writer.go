package canvas

import (
	"encoding/binary"
	"image"
	"image/draw"

	"github.com/bodgit/mm1img/level"
)

func encodeHeader(m draw.Image, l *level.Level, y int) {
	setPixel(m, 0, y, Encode8(uint8(l.GameMode)<<6))
	setPixel(m, 1, y, Encode8(uint8(l.CourseTheme)<<5))
	setPixel(m, 2, y, Encode16(l.TimeLimit))
	setPixel(m, 3, y, Encode8(uint8(l.AutoScroll)<<6))
	setPixel(m, 4, y, Encode8(l.Flags))

	var width [4]byte
	binary.LittleEndian.PutUint32(width[:], l.Width)
	for i, b := range width {
		setPixel(m, 5+i, y, Encode8(b))
	}
}

func encodeObjects(m draw.Image, objects []level.Object, y int) {
	g := newGrid(objects)
	for gx := range g {
		for gy, o := range g[gx] {
			if o == nil {
				continue
			}
			for i, v := range toBands(o) {
				setPixel(m, gx, y+1+GridHeight*i+gy, Encode16(v))
			}
		}
	}
}

// EncodeLevel writes l into m with the header at row y. Objects outside the
// grid are dropped and only the object with the greatest Z is kept in each
// cell. m must be an *image.RGBA or *image.NRGBA, other image types cannot
// hold every pixel value exactly.
func EncodeLevel(m draw.Image, l *level.Level, y int) error {
	if err := checkColorModel(m); err != nil {
		return err
	}
	if err := checkBounds(m.Bounds(), y); err != nil {
		return err
	}

	encodeHeader(m, l, y)
	encodeObjects(m, l.Objects, y)

	return nil
}

// Encode returns a new image holding levels at the offsets of the layout.
// The number of levels must match the number of offsets.
func (l Layout) Encode(levels ...*level.Level) (*image.RGBA, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if len(levels) != len(l.Offsets) {
		return nil, errLevelCount
	}

	m := l.NewImage()
	for i, lvl := range levels {
		if err := EncodeLevel(m, lvl, l.Offsets[i]); err != nil {
			return nil, err
		}
	}

	return m, nil
}
