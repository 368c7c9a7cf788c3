package mm1img

import (
	"errors"
	"io/ioutil"

	"github.com/bodgit/mm1img/canvas"
	"github.com/bodgit/mm1img/preview"
	"gopkg.in/yaml.v3"
)

// Layout is the YAML form of canvas.Layout
type Layout struct {
	Width   int   `yaml:"width"`
	Height  int   `yaml:"height"`
	Offsets []int `yaml:"offsets"`
}

// Canvas returns the layout as a canvas.Layout
func (l Layout) Canvas() canvas.Layout {
	return canvas.Layout{
		Width:   l.Width,
		Height:  l.Height,
		Offsets: append([]int(nil), l.Offsets...),
	}
}

func fromCanvas(l canvas.Layout) Layout {
	return Layout{
		Width:   l.Width,
		Height:  l.Height,
		Offsets: append([]int(nil), l.Offsets...),
	}
}

// Config holds the image layouts and preview settings
type Config struct {
	// Level is used for single .cdt files
	Level Layout `yaml:"level"`
	// Course is used for archives holding a main and a sub level
	Course Layout `yaml:"course"`

	Preview struct {
		Colors int `yaml:"colors"`
		Scale  int `yaml:"scale"`
	} `yaml:"preview"`
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() *Config {
	c := &Config{
		Level:  fromCanvas(canvas.SingleLayout),
		Course: fromCanvas(canvas.CourseLayout),
	}
	c.Preview.Colors = preview.DefaultColors
	c.Preview.Scale = preview.DefaultScale
	return c
}

// Validate checks both layouts
func (c *Config) Validate() error {
	if len(c.Level.Offsets) != 1 {
		return errors.New("mm1img: level layout needs exactly one offset")
	}
	if len(c.Course.Offsets) != 2 {
		return errors.New("mm1img: course layout needs exactly two offsets")
	}
	if err := c.Level.Canvas().Validate(); err != nil {
		return err
	}
	return c.Course.Canvas().Validate()
}

// PreviewOptions returns the preview settings
func (c *Config) PreviewOptions() *preview.Options {
	return &preview.Options{
		Colors: c.Preview.Colors,
		Scale:  c.Preview.Scale,
	}
}

// LoadConfig reads a YAML configuration file. Anything not set in the file
// keeps its default value.
func LoadConfig(file string) (*Config, error) {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, err
	}

	c := DefaultConfig()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}
