package canvas

import (
	"image"
	"image/color/palette"
	"image/draw"
	"testing"
	"time"

	"github.com/bodgit/mm1img/level"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2015, time.September, 10, 0, 0, 0, 0, time.UTC)

func testDecoder() *Decoder {
	return &Decoder{
		Now:  func() time.Time { return epoch },
		Name: func() string { return "quiet-goomba" },
	}
}

func roundTrip(t *testing.T, l *level.Level) *level.Level {
	t.Helper()

	m := SingleLayout.NewImage()
	require.Nil(t, EncodeLevel(m, l, 0))

	got, err := testDecoder().DecodeLevel(m, 0)
	require.Nil(t, err)

	return got
}

func object(x uint32, y int16, z int32, typ int8) level.Object {
	return level.Object{X: x, Y: y, Z: z, Type: typ, LinkID: -1, EffectIndex: -1}
}

func TestEmptyLevel(t *testing.T) {
	want := &level.Level{
		GameMode:    level.GameModeNSMBU,
		CourseTheme: level.CourseThemeGhostHouse,
		TimeLimit:   500,
		AutoScroll:  level.AutoScrollFast,
		Flags:       0xff,
		Width:       0xffffffff,
	}

	got := roundTrip(t, want)

	assert.Equal(t, want.GameMode, got.GameMode)
	assert.Equal(t, want.CourseTheme, got.CourseTheme)
	assert.Equal(t, want.TimeLimit, got.TimeLimit)
	assert.Equal(t, want.AutoScroll, got.AutoScroll)
	assert.Equal(t, want.Flags, got.Flags)
	assert.Equal(t, want.Width, got.Width)
	assert.Empty(t, got.Objects)
}

func TestSynthesizedFields(t *testing.T) {
	l := &level.Level{
		Version:      0x0b,
		Name:         "original",
		CreationTime: time.Now(),
		SoundEffects: []level.SoundEffect{{Type: 1}},
	}
	l.MiiData[0] = 0xaa

	got := roundTrip(t, l)

	assert.Equal(t, uint64(0), got.Version)
	assert.Equal(t, "quiet-goomba", got.Name)
	assert.Equal(t, epoch, got.CreationTime)
	assert.Equal(t, [level.MiiDataSize]byte{}, got.MiiData)
	assert.Empty(t, got.SoundEffects)
}

func TestWidth(t *testing.T) {
	m := SingleLayout.NewImage()
	require.Nil(t, EncodeLevel(m, &level.Level{Width: 0x01020304}, 0))

	for i, b := range []uint8{0x04, 0x03, 0x02, 0x01} {
		assert.Equal(t, Encode8(b), m.RGBAAt(5+i, 0))
	}

	got, err := testDecoder().DecodeLevel(m, 0)
	require.Nil(t, err)
	assert.Equal(t, uint32(0x01020304), got.Width)
}

func TestOutOfRangeEnums(t *testing.T) {
	m := SingleLayout.NewImage()
	// Course theme 7 does not exist
	m.SetRGBA(1, 0, Encode8(7<<5))

	got, err := testDecoder().DecodeLevel(m, 0)
	require.Nil(t, err)
	assert.Equal(t, level.CourseThemeGround, got.CourseTheme)
}

func TestScenario(t *testing.T) {
	o := object(320, 160, 5, 3)
	o.Transformation = 1
	o.Width, o.Height = 2, -1
	o.Flags = 0x06000040
	o.ChildType, o.ChildTransformation = -12, 4
	o.ChildFlags = 0xdeadbeef
	o.ExtendedData = 99
	o.LinkID = 4
	o.EffectIndex = 2

	want := &level.Level{
		GameMode:    level.GameModeSMB3,
		CourseTheme: level.CourseThemeCastle,
		TimeLimit:   300,
		AutoScroll:  level.AutoScrollNone,
		Flags:       0x05,
		Width:       64,
		Objects:     []level.Object{o},
	}

	got := roundTrip(t, want)

	assert.Equal(t, level.GameModeSMB3, got.GameMode)
	assert.Equal(t, level.CourseThemeCastle, got.CourseTheme)
	assert.Equal(t, uint16(300), got.TimeLimit)
	assert.Equal(t, level.AutoScrollNone, got.AutoScroll)
	assert.Equal(t, uint8(0x05), got.Flags)
	assert.Equal(t, uint32(64), got.Width)

	require.Len(t, got.Objects, 1)
	assert.Equal(t, level.Object{
		X:                   2 * Scale,
		Y:                   1 * Scale,
		Z:                   5,
		Width:               2,
		Height:              -1,
		Flags:               0x06000040,
		ChildFlags:          0xdeadbeef,
		ExtendedData:        0,
		Type:                3,
		ChildType:           -12,
		LinkID:              -1,
		EffectIndex:         -1,
		Transformation:      1,
		ChildTransformation: 4,
	}, got.Objects[0])
}

func TestQuantize(t *testing.T) {
	got := roundTrip(t, &level.Level{Objects: []level.Object{object(479, 319, 0, 1)}})

	require.Len(t, got.Objects, 1)
	assert.Equal(t, uint32(320), got.Objects[0].X)
	assert.Equal(t, int16(160), got.Objects[0].Y)
}

func TestNegativeZ(t *testing.T) {
	got := roundTrip(t, &level.Level{Objects: []level.Object{object(0, 0, -70000, 1)}})

	require.Len(t, got.Objects, 1)
	assert.Equal(t, int32(-70000), got.Objects[0].Z)
}

func TestCollision(t *testing.T) {
	tables := []struct {
		name    string
		objects []level.Object
		want    int8
	}{
		{"higher z first", []level.Object{object(320, 160, 9, 1), object(330, 170, 5, 2)}, 1},
		{"higher z last", []level.Object{object(320, 160, 5, 1), object(330, 170, 9, 2)}, 2},
		{"equal z keeps first", []level.Object{object(320, 160, 5, 1), object(330, 170, 5, 2)}, 1},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			got := roundTrip(t, &level.Level{Objects: table.objects})
			require.Len(t, got.Objects, 1)
			assert.Equal(t, table.want, got.Objects[0].Type)
		})
	}
}

func TestDropped(t *testing.T) {
	tables := []struct {
		name   string
		object level.Object
	}{
		{"column 241", object(241*Scale, 0, 0, 1)},
		{"column 240", object(240*Scale, 0, 0, 1)},
		{"row 28", object(0, 28*Scale, 0, 1)},
		{"row 27", object(0, 27*Scale, 0, 1)},
		{"negative row", object(0, -Scale, 0, 1)},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			got := roundTrip(t, &level.Level{Objects: []level.Object{table.object}})
			assert.Empty(t, got.Objects)
		})
	}
}

func TestEdgeCells(t *testing.T) {
	objects := []level.Object{
		object(239*Scale, 0, 0, 1),
		object(0, 26*Scale, 0, 2),
		object(239*Scale, 26*Scale, 0, 3),
	}

	got := roundTrip(t, &level.Level{Objects: objects})

	require.Len(t, got.Objects, 3)
	// Decoded in row order
	assert.Equal(t, int8(1), got.Objects[0].Type)
	assert.Equal(t, int8(2), got.Objects[1].Type)
	assert.Equal(t, int8(3), got.Objects[2].Type)
}

// An object with type zero cannot be told apart from an empty cell and is
// lost on the way back.
func TestTypeZeroIsLost(t *testing.T) {
	got := roundTrip(t, &level.Level{Objects: []level.Object{object(320, 160, 5, 0)}})
	assert.Empty(t, got.Objects)
}

func TestOffset(t *testing.T) {
	m := CourseLayout.NewImage()
	l := &level.Level{TimeLimit: 250, Objects: []level.Object{object(0, 0, 0, 7)}}
	require.Nil(t, EncodeLevel(m, l, 100))

	// Nothing written at the top
	assert.Equal(t, black, m.RGBAAt(2, 0))

	got, err := testDecoder().DecodeLevel(m, 100)
	require.Nil(t, err)
	assert.Equal(t, uint16(250), got.TimeLimit)
	require.Len(t, got.Objects, 1)
	assert.Equal(t, int8(7), got.Objects[0].Type)
}

func TestSubImage(t *testing.T) {
	m := CourseLayout.NewImage()
	sub := m.SubImage(image.Rect(0, 256, 256, 512)).(*image.RGBA)
	require.Nil(t, EncodeLevel(sub, &level.Level{TimeLimit: 123}, 0))

	got, err := testDecoder().DecodeLevel(m, 256)
	require.Nil(t, err)
	assert.Equal(t, uint16(123), got.TimeLimit)
}

func TestTooSmall(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 256, LevelHeight))

	assert.Nil(t, EncodeLevel(m, &level.Level{}, 0))
	assert.Equal(t, ErrTooSmall, EncodeLevel(m, &level.Level{}, 1))
	assert.Equal(t, ErrTooSmall, EncodeLevel(m, &level.Level{}, -1))

	_, err := testDecoder().DecodeLevel(image.NewRGBA(image.Rect(0, 0, 200, 256)), 0)
	assert.Equal(t, ErrTooSmall, err)
}

func TestNRGBA(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 256, 256))
	l := &level.Level{TimeLimit: 999, Objects: []level.Object{object(800, 800, 1, 5)}}
	require.Nil(t, EncodeLevel(m, l, 0))

	got, err := testDecoder().DecodeLevel(m, 0)
	require.Nil(t, err)
	assert.Equal(t, uint16(999), got.TimeLimit)
	require.Len(t, got.Objects, 1)
	assert.Equal(t, int8(5), got.Objects[0].Type)
}

func TestColorModel(t *testing.T) {
	tables := []struct {
		name string
		m    draw.Image
		err  error
	}{
		{"rgba", image.NewRGBA(image.Rect(0, 0, 256, 256)), nil},
		{"nrgba", image.NewNRGBA(image.Rect(0, 0, 256, 256)), nil},
		{"gray", image.NewGray(image.Rect(0, 0, 256, 256)), ErrColorModel},
		{"paletted", image.NewPaletted(image.Rect(0, 0, 256, 256), palette.Plan9), ErrColorModel},
		{"rgba64", image.NewRGBA64(image.Rect(0, 0, 256, 256)), ErrColorModel},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			assert.Equal(t, table.err, EncodeLevel(table.m, &level.Level{TimeLimit: 300}, 0))
		})
	}
}

func TestPartialDecoder(t *testing.T) {
	m := SingleLayout.NewImage()

	l, err := (&Decoder{Name: func() string { return "only-name" }}).DecodeLevel(m, 0)
	require.Nil(t, err)
	assert.Equal(t, "only-name", l.Name)
	assert.False(t, l.CreationTime.IsZero())

	l, err = (&Decoder{Now: func() time.Time { return epoch }}).DecodeLevel(m, 0)
	require.Nil(t, err)
	assert.Equal(t, epoch, l.CreationTime)
	assert.NotEmpty(t, l.Name)

	l, err = new(Decoder).DecodeLevel(m, 0)
	require.Nil(t, err)
	assert.NotEmpty(t, l.Name)
}
