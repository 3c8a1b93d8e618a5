package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch starts invalidating the catalog whenever a file under the data
// directory is created, written, removed or renamed. Call Close to stop.
func (c *Catalog) Watch() error {
	if c.watcher != nil {
		return errors.New("catalog is already being watched")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// fsnotify is not recursive; every directory is added on its own.
	err = filepath.WalkDir(c.dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fw.Add(path)
		}
		return nil
	})
	if err != nil {
		_ = fw.Close()
		return fmt.Errorf("failed to watch %s: %w", c.dataDir, err)
	}

	c.watcher = fw
	c.done = make(chan struct{})
	go c.loop(fw)
	return nil
}

// Close stops watching. It is a no-op if Watch was never called.
func (c *Catalog) Close() error {
	if c.watcher == nil {
		return nil
	}
	err := c.watcher.Close()
	<-c.done // Wait for loop to exit.
	c.watcher = nil
	return err
}

func (c *Catalog) loop(fw *fsnotify.Watcher) {
	defer close(c.done)

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = fw.Add(event.Name)
				}
			}

			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				c.forget(event.Name)
			}

		case _, ok := <-fw.Errors:
			if !ok {
				return
			}
			// Events may have been lost, e.g. on queue overflow.
			c.Invalidate()
		}
	}
}
