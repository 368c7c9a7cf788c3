package level

import (
	"archive/tar"
	"bytes"
	"errors"
	"io"
	"path"

	"github.com/klauspost/compress/zstd"
)

const (
	// MainFilename is the name of the main level inside a course archive
	MainFilename = "course_data.cdt"
	// SubFilename is the name of the sub level inside a course archive
	SubFilename = "course_data_sub.cdt"
)

// ErrMissingCourseData is returned when an archive does not contain both
// levels of a course
var ErrMissingCourseData = errors.New("level: missing course data")

// ReadCourse reads a course from a tar archive. Entries are matched by base
// name so archives with a leading course directory work too.
func ReadCourse(r io.Reader) (*Course, error) {
	c := new(Course)

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		var dst **Level
		switch path.Base(hdr.Name) {
		case MainFilename:
			dst = &c.Level
		case SubFilename:
			dst = &c.SubLevel
		default:
			continue
		}

		b, err := io.ReadAll(tr)
		if err != nil {
			return nil, err
		}

		l := new(Level)
		if err := l.UnmarshalBinary(b); err != nil {
			return nil, err
		}
		*dst = l
	}

	if c.Level == nil || c.SubLevel == nil {
		return nil, ErrMissingCourseData
	}

	return c, nil
}

// WriteCourse writes a course to w as a tar archive
func WriteCourse(w io.Writer, c *Course) error {
	if c.Level == nil || c.SubLevel == nil {
		return ErrMissingCourseData
	}

	tw := tar.NewWriter(w)

	for _, f := range []struct {
		name  string
		level *Level
	}{
		{MainFilename, c.Level},
		{SubFilename, c.SubLevel},
	} {
		b, err := f.level.MarshalBinary()
		if err != nil {
			return err
		}

		if err := tw.WriteHeader(&tar.Header{
			Name:    f.name,
			Mode:    0644,
			Size:    int64(len(b)),
			ModTime: f.level.CreationTime,
		}); err != nil {
			return err
		}

		if _, err := io.Copy(tw, bytes.NewReader(b)); err != nil {
			return err
		}
	}

	return tw.Close()
}

// ReadArchive reads a course from a zstd compressed tar archive
func ReadArchive(r io.Reader) (*Course, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	return ReadCourse(dec)
}

// WriteArchive writes a course to w as a zstd compressed tar archive
func WriteArchive(w io.Writer, c *Course) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}

	if err := WriteCourse(enc, c); err != nil {
		enc.Close()
		return err
	}

	return enc.Close()
}
