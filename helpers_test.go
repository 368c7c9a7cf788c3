package mm1img

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bodgit/mm1img/canvas"
	"github.com/bodgit/mm1img/level"
	"github.com/stretchr/testify/require"
)

func testLevel(theme level.CourseTheme, types ...int8) *level.Level {
	l := &level.Level{
		Version:      0x0b,
		CreationTime: time.Date(2016, time.March, 1, 12, 0, 0, 0, time.UTC),
		Name:         "test",
		GameMode:     level.GameModeSMB3,
		CourseTheme:  theme,
		TimeLimit:    300,
		AutoScroll:   level.AutoScrollSlow,
		Flags:        0x02,
		Width:        0x1e00,
	}
	for i, typ := range types {
		l.Objects = append(l.Objects, level.Object{
			X:           uint32(i) * canvas.Scale,
			Y:           canvas.Scale,
			Type:        typ,
			LinkID:      -1,
			EffectIndex: -1,
		})
	}
	return l
}

func testConverter(t *testing.T, catalog *Catalog) *Converter {
	t.Helper()

	c := New(catalog, nil, nil)
	c.SetDecoder(&canvas.Decoder{
		Now:  func() time.Time { return time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC) },
		Name: func() string { return "fixed-name" },
	})
	return c
}

func writeCDT(t *testing.T, dir, name string, l *level.Level) string {
	t.Helper()

	b, err := l.MarshalBinary()
	require.Nil(t, err)

	file := filepath.Join(dir, name)
	require.Nil(t, ioutil.WriteFile(file, b, 0644))
	return file
}

func writeArchive(t *testing.T, dir, name string, c *level.Course) string {
	t.Helper()

	file := filepath.Join(dir, name)
	f, err := os.Create(file)
	require.Nil(t, err)
	defer f.Close()

	require.Nil(t, level.WriteArchive(f, c))
	return file
}
