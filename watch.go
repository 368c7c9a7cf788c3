package mm1img

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch converts files as they are created or rewritten in the directory in
// until ctx is cancelled. Files already present are left alone; use Batch
// for those.
func (c *Converter) Watch(ctx context.Context, in, out string, d Direction) error {
	if err := os.MkdirAll(out, 0755); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(in); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if name := filepath.Base(event.Name); name[0] == '.' || !d.Accepts(name) {
				continue
			}
			// A file written in several chunks fails to parse until the
			// last write lands
			if err := c.Convert(event.Name, filepath.Join(out, d.Output(event.Name)), d); err != nil {
				c.logger.Printf("Failed to convert \"%s\": %s\n", event.Name, err)
				continue
			}
			c.logger.Printf("Converted \"%s\"\n", event.Name)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.logger.Printf("Watch error: %s\n", err)
		}
	}
}
