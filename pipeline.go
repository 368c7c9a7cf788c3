package mm1img

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

var errCancelled = errors.New("mm1img: batch cancelled")

// Stats counts the outcome of a batch
type Stats struct {
	Converted atomic.Int64
	Failed    atomic.Int64
}

func hidden(info os.FileInfo) bool {
	return info.Name()[0] == '.'
}

// findFiles sends every file directly inside base that can be converted in
// direction d. Subdirectories are not descended into. A file whose output
// name was already claimed by an earlier file is logged and counted as
// failed rather than overwriting it.
func (c *Converter) findFiles(ctx context.Context, base string, d Direction, stats *Stats) (<-chan string, <-chan error, error) {
	claimed := make(map[string]string)
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.Mode().IsDir() {
				if file != base {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore any hidden files, otherwise we end up fighting with things like Spotlight, etc.
			if hidden(info) || !info.Mode().IsRegular() || !d.Accepts(file) {
				return nil
			}

			output := d.Output(file)
			if prev, ok := claimed[output]; ok {
				c.logger.Printf("Skipping \"%s\", \"%s\" already produces \"%s\"\n", file, prev, output)
				stats.Failed.Add(1)
				return nil
			}
			claimed[output] = file

			select {
			case out <- file:
			case <-ctx.Done():
				return errCancelled
			}

			return nil
		})
	}()
	return out, errc, nil
}

// fileWorker converts each file received into the directory dir. A failed
// file is logged and counted, the worker carries on with the next one.
func (c *Converter) fileWorker(ctx context.Context, in <-chan string, dir string, d Direction, stats *Stats) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			select {
			case <-ctx.Done():
				errc <- errCancelled
				return
			default:
			}

			if err := c.Convert(file, filepath.Join(dir, d.Output(file)), d); err != nil {
				c.logger.Printf("Failed to convert \"%s\": %s\n", file, err)
				stats.Failed.Add(1)
				continue
			}
			c.logger.Printf("Converted \"%s\"\n", file)
			stats.Converted.Add(1)
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Batch converts every suitable file in the directory in, writing the
// results to the directory out which is created if necessary
func (c *Converter) Batch(ctx context.Context, in, out string, d Direction) (*Stats, error) {
	src, err := filepath.Abs(in)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(out, 0755); err != nil {
		return nil, err
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	stats := new(Stats)

	files, errc, err := c.findFiles(ctx, src, d, stats)
	if err != nil {
		return nil, err
	}
	errcList = append(errcList, errc)

	for i := 0; i < c.workers; i++ {
		errc, err := c.fileWorker(ctx, files, out, d, stats)
		if err != nil {
			return nil, err
		}
		errcList = append(errcList, errc)
	}

	return stats, waitForPipeline(errcList...)
}
