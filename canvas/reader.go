package canvas

import (
	"encoding/binary"
	"errors"
	"image"
	"time"

	"github.com/bodgit/mm1img/level"
	petname "github.com/dustinkirkland/golang-petname"
)

var errLevelCount = errors.New("canvas: level count does not match layout")

// A Decoder rebuilds levels from images. Now and Name supply the creation
// time and level name, neither of which are stored in the image. A nil Now
// uses time.Now and a nil Name uses Petname.
type Decoder struct {
	Now  func() time.Time
	Name func() string
}

// Petname returns a random two word name such as "brave-lemur"
func Petname() string {
	return petname.Generate(2, "-")
}

// NewDecoder returns a Decoder using the wall clock and random names
func NewDecoder() *Decoder {
	return &Decoder{
		Now:  time.Now,
		Name: Petname,
	}
}

func decodeHeader(m image.Image, l *level.Level, y int) {
	l.GameMode = level.GameModeFromCode(Decode8(pixelAt(m, 0, y)) >> 6)
	l.CourseTheme = level.CourseThemeFromCode(Decode8(pixelAt(m, 1, y)) >> 5)
	l.TimeLimit = Decode16(pixelAt(m, 2, y))
	l.AutoScroll = level.AutoScrollFromCode(Decode8(pixelAt(m, 3, y)) >> 6)
	l.Flags = Decode8(pixelAt(m, 4, y))

	var width [4]byte
	for i := range width {
		width[i] = Decode8(pixelAt(m, 5+i, y))
	}
	l.Width = binary.LittleEndian.Uint32(width[:])
}

func decodeObjects(m image.Image, y int) []level.Object {
	var objects []level.Object
	for gy := 0; gy < GridHeight; gy++ {
		for gx := 0; gx < GridWidth; gx++ {
			var b bands
			b[bandType] = Decode16(pixelAt(m, gx, y+1+gy))
			// Type zero is an empty cell
			if t, _ := unpack(b[bandType]); t == 0 {
				continue
			}
			for i := bandType + 1; i < numBands; i++ {
				b[i] = Decode16(pixelAt(m, gx, y+1+GridHeight*i+gy))
			}
			objects = append(objects, fromBands(b, gx, gy))
		}
	}
	return objects
}

// DecodeLevel reads the level with the header at row y of m
func (d *Decoder) DecodeLevel(m image.Image, y int) (*level.Level, error) {
	if err := checkBounds(m.Bounds(), y); err != nil {
		return nil, err
	}

	now, name := d.Now, d.Name
	if now == nil {
		now = time.Now
	}
	if name == nil {
		name = Petname
	}

	l := &level.Level{
		Version:      0,
		CreationTime: now(),
		Name:         name(),
	}
	decodeHeader(m, l, y)
	l.Objects = decodeObjects(m, y)

	return l, nil
}

// Decode reads one level per offset of the layout from m
func (d *Decoder) Decode(m image.Image, l Layout) ([]*level.Level, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	levels := make([]*level.Level, 0, len(l.Offsets))
	for _, y := range l.Offsets {
		lvl, err := d.DecodeLevel(m, y)
		if err != nil {
			return nil, err
		}
		levels = append(levels, lvl)
	}

	return levels, nil
}

// DecodeLevel reads the level with the header at row y of m using the wall
// clock and a random name
func DecodeLevel(m image.Image, y int) (*level.Level, error) {
	return NewDecoder().DecodeLevel(m, y)
}
