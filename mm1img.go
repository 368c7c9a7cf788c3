/*
Package mm1img is a library for converting Super Mario Maker courses to and
from lossless PNG images so they can be browsed, diffed and edited with
ordinary image tools.
*/
package mm1img

import (
	"io/ioutil"
	"log"

	"github.com/bodgit/mm1img/canvas"
)

const defaultWorkers = 10

// Converter converts files between course data and images. Conversions are
// optionally recorded in a Catalog.
type Converter struct {
	catalog *Catalog
	config  *Config
	logger  *log.Logger
	decoder *canvas.Decoder
	workers int
}

// New returns a Converter. catalog may be nil, a nil config uses
// DefaultConfig and a nil logger discards output.
func New(catalog *Catalog, config *Config, logger *log.Logger) *Converter {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}
	return &Converter{
		catalog: catalog,
		config:  config,
		logger:  logger,
		decoder: canvas.NewDecoder(),
		workers: defaultWorkers,
	}
}

// SetWorkers sets the number of concurrent workers used by Batch
func (c *Converter) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	c.workers = n
}

// SetDecoder replaces the decoder used to rebuild levels from images
func (c *Converter) SetDecoder(d *canvas.Decoder) {
	c.decoder = d
}
