package mm1img

import (
	"bytes"
	"crypto/sha1"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/mm1img/canvas"
	"github.com/bodgit/mm1img/level"
	"github.com/bodgit/mm1img/preview"
)

// Direction selects what a file is converted into
type Direction int

// Directions
const (
	// ToImage converts .cdt files and course archives into PNG images
	ToImage Direction = iota
	// ToLevel converts PNG images into .cdt files
	ToLevel
	// ToCourse converts PNG images into .tar.zst course archives
	ToCourse
)

const (
	extCDT     = ".cdt"
	extTar     = ".tar"
	extArchive = ".tar.zst"
	extPNG     = ".png"
	extGIF     = ".gif"
)

var errUnsupported = errors.New("mm1img: unsupported file type")

func (d Direction) String() string {
	switch d {
	case ToImage:
		return "image"
	case ToLevel:
		return "level"
	case ToCourse:
		return "course"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

func trimExt(name string) (string, string) {
	lower := strings.ToLower(name)
	for _, ext := range []string{extArchive, extTar, extCDT, extPNG} {
		if strings.HasSuffix(lower, ext) {
			return name[:len(name)-len(ext)], ext
		}
	}
	return name, ""
}

// Accepts reports whether a file called name can be converted in direction d
func (d Direction) Accepts(name string) bool {
	_, ext := trimExt(filepath.Base(name))
	switch d {
	case ToImage:
		return ext == extCDT || ext == extTar || ext == extArchive
	case ToLevel, ToCourse:
		return ext == extPNG
	}
	return false
}

// Output returns the name of the file produced from name in direction d.
// Images keep the extension of the file they came from, "a.cdt" becomes
// "a.cdt.png", so levels and courses with the same stem do not collide.
// Converting back strips it again.
func (d Direction) Output(name string) string {
	base := filepath.Base(name)
	if d == ToImage {
		return base + extPNG
	}

	base, _ = trimExt(base)
	base, _ = trimExt(base)
	if d == ToCourse {
		return base + extArchive
	}
	return base + extCDT
}

// readFile returns the contents of file and their SHA-1
func readFile(file string) ([]byte, string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	h := sha1.New()
	b, err := ioutil.ReadAll(io.TeeReader(f, h))
	if err != nil {
		return nil, "", err
	}

	return b, fmt.Sprintf("%X", h.Sum(nil)), nil
}

// writeFile writes to a hidden temporary file next to file and renames it
// into place once write succeeds, so a failed conversion leaves nothing
// behind
func writeFile(file string, write func(io.Writer) error) error {
	f, err := ioutil.TempFile(filepath.Dir(file), "."+filepath.Base(file)+".*")
	if err != nil {
		return err
	}

	if err := write(f); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return err
	}

	if err := os.Chmod(f.Name(), 0644); err != nil {
		os.Remove(f.Name())
		return err
	}

	if err := os.Rename(f.Name(), file); err != nil {
		os.Remove(f.Name())
		return err
	}

	return nil
}

// readLevels parses course data or a course archive
func readLevels(file string, b []byte) ([]*level.Level, error) {
	_, ext := trimExt(filepath.Base(file))
	switch ext {
	case extCDT:
		l := new(level.Level)
		if err := l.UnmarshalBinary(b); err != nil {
			return nil, err
		}
		return []*level.Level{l}, nil
	case extTar, extArchive:
		var (
			c   *level.Course
			err error
		)
		if ext == extTar {
			c, err = level.ReadCourse(bytes.NewReader(b))
		} else {
			c, err = level.ReadArchive(bytes.NewReader(b))
		}
		if err != nil {
			return nil, err
		}
		return []*level.Level{c.Level, c.SubLevel}, nil
	}
	return nil, errUnsupported
}

func (c *Converter) layout(n int) canvas.Layout {
	if n == 1 {
		return c.config.Level.Canvas()
	}
	return c.config.Course.Canvas()
}

// ToImage converts the .cdt file or course archive src into the PNG image
// dst
func (c *Converter) ToImage(src, dst string) error {
	b, sum, err := readFile(src)
	if err != nil {
		return err
	}

	levels, err := readLevels(src, b)
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	m, err := c.layout(len(levels)).Encode(levels...)
	if err != nil {
		return err
	}

	if err := writeFile(dst, func(w io.Writer) error {
		return png.Encode(w, m)
	}); err != nil {
		return err
	}

	return c.record(src, sum, levels)
}

func decodeImage(file string) (image.Image, string, error) {
	b, sum, err := readFile(file)
	if err != nil {
		return nil, "", err
	}

	m, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", file, err)
	}

	return m, sum, nil
}

// ToLevel converts the PNG image src into the .cdt file dst
func (c *Converter) ToLevel(src, dst string) error {
	m, sum, err := decodeImage(src)
	if err != nil {
		return err
	}

	levels, err := c.decoder.Decode(m, c.config.Level.Canvas())
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	b, err := levels[0].MarshalBinary()
	if err != nil {
		return err
	}

	if err := writeFile(dst, func(w io.Writer) error {
		_, err := w.Write(b)
		return err
	}); err != nil {
		return err
	}

	return c.record(src, sum, levels)
}

// ToCourse converts the PNG image src into the .tar.zst course archive dst
func (c *Converter) ToCourse(src, dst string) error {
	m, sum, err := decodeImage(src)
	if err != nil {
		return err
	}

	levels, err := c.decoder.Decode(m, c.config.Course.Canvas())
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	if err := writeFile(dst, func(w io.Writer) error {
		return level.WriteArchive(w, &level.Course{Level: levels[0], SubLevel: levels[1]})
	}); err != nil {
		return err
	}

	return c.record(src, sum, levels)
}

// Convert converts src into dst in direction d
func (c *Converter) Convert(src, dst string, d Direction) error {
	if !d.Accepts(src) {
		return fmt.Errorf("%s: %w", src, errUnsupported)
	}

	switch d {
	case ToImage:
		return c.ToImage(src, dst)
	case ToLevel:
		return c.ToLevel(src, dst)
	case ToCourse:
		return c.ToCourse(src, dst)
	}
	return errUnsupported
}

// Preview writes a GIF preview of the PNG image src to dst
func (c *Converter) Preview(src, dst string) error {
	m, _, err := decodeImage(src)
	if err != nil {
		return err
	}

	return writeFile(dst, func(w io.Writer) error {
		return preview.Encode(w, m, c.config.PreviewOptions())
	})
}

func (c *Converter) record(file, sum string, levels []*level.Level) error {
	if c.catalog == nil {
		return nil
	}
	return c.catalog.Record(filepath.Base(file), sum, levels)
}
