package main

import (
	"context"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bodgit/mm1img"
	"github.com/urfave/cli/v2"
)

const defaultDB = "mm1img.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func loadConfig(c *cli.Context) (*mm1img.Config, error) {
	if c.String("config") == "" {
		return mm1img.DefaultConfig(), nil
	}
	return mm1img.LoadConfig(c.String("config"))
}

// withConverter builds a Converter from the global flags and runs fn with
// it. The catalog is only opened when record is true.
func withConverter(c *cli.Context, record bool, fn func(*mm1img.Converter) error) error {
	config, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err, 1)
	}

	var catalog *mm1img.Catalog
	if record {
		catalog, err = mm1img.NewCatalog(c.String("db"))
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer catalog.Close()
	}

	m := mm1img.New(catalog, config, newLogger(c))
	m.SetWorkers(c.Int("workers"))

	if err := fn(m); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func direction(c *cli.Context) mm1img.Direction {
	if c.Bool("course") {
		return mm1img.ToCourse
	}
	return mm1img.ToLevel
}

var courseFlag = &cli.BoolFlag{
	Name:  "course",
	Usage: "produce .tar.zst course archives instead of .cdt files",
}

func main() {
	app := cli.NewApp()

	app.Name = "mm1img"
	app.Usage = "Super Mario Maker level to image converter"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"MM1IMG_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to catalog database",
		},
		&cli.StringFlag{
			Name:    "config",
			EnvVars: []string{"MM1IMG_CONFIG"},
			Usage:   "path to YAML layout configuration",
		},
		&cli.IntFlag{
			Name:    "workers",
			EnvVars: []string{"MM1IMG_WORKERS"},
			Value:   10,
			Usage:   "number of concurrent conversions",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "to-img",
			Usage:     "Convert a .cdt file or .tar.zst course archive to a PNG image",
			ArgsUsage: "SOURCE DESTINATION",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				return withConverter(c, false, func(m *mm1img.Converter) error {
					return m.ToImage(c.Args().Get(0), c.Args().Get(1))
				})
			},
		},
		{
			Name:      "from-img",
			Usage:     "Convert a PNG image to a .cdt file or .tar.zst course archive",
			ArgsUsage: "SOURCE DESTINATION",
			Flags:     []cli.Flag{courseFlag},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				return withConverter(c, false, func(m *mm1img.Converter) error {
					return m.Convert(c.Args().Get(0), c.Args().Get(1), direction(c))
				})
			},
		},
		{
			Name:      "batch",
			Usage:     "Convert every file in a directory and record them in the catalog",
			ArgsUsage: "INPUT OUTPUT",
			Flags: []cli.Flag{
				courseFlag,
				&cli.BoolFlag{
					Name:  "reverse",
					Usage: "convert images back to levels",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				d := mm1img.ToImage
				if c.Bool("reverse") {
					d = direction(c)
				}

				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
				defer stop()

				return withConverter(c, true, func(m *mm1img.Converter) error {
					stats, err := m.Batch(ctx, c.Args().Get(0), c.Args().Get(1), d)
					if err != nil {
						return err
					}
					fmt.Printf("%d converted, %d failed\n", stats.Converted.Load(), stats.Failed.Load())
					return nil
				})
			},
		},
		{
			Name:      "watch",
			Usage:     "Convert files as they appear in a directory",
			ArgsUsage: "INPUT OUTPUT",
			Flags: []cli.Flag{
				courseFlag,
				&cli.BoolFlag{
					Name:  "reverse",
					Usage: "convert images back to levels",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				d := mm1img.ToImage
				if c.Bool("reverse") {
					d = direction(c)
				}

				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
				defer stop()

				return withConverter(c, true, func(m *mm1img.Converter) error {
					return m.Watch(ctx, c.Args().Get(0), c.Args().Get(1), d)
				})
			},
		},
		{
			Name:      "preview",
			Usage:     "Write a palette reduced GIF preview of a level image",
			ArgsUsage: "SOURCE DESTINATION",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				return withConverter(c, false, func(m *mm1img.Converter) error {
					return m.Preview(c.Args().Get(0), c.Args().Get(1))
				})
			},
		},
		{
			Name:      "export",
			Usage:     "Export the catalog as CSV",
			ArgsUsage: "[FILE]",
			Action: func(c *cli.Context) error {
				catalog, err := mm1img.NewCatalog(c.String("db"))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer catalog.Close()

				w := os.Stdout
				if c.NArg() > 0 {
					f, err := os.Create(c.Args().First())
					if err != nil {
						return cli.Exit(err, 1)
					}
					defer f.Close()
					w = f
				}

				if err := catalog.ExportCSV(w); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
