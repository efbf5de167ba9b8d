package devserver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// watchRoot logs every change under root until ctx is done.
// Nothing is served differently when a file changes; responses are never cached.
func watchRoot(ctx context.Context, root string, log logrus.FieldLogger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := addTree(w, root); err != nil {
		return err
	}
	log.WithField("root", root).Info("Watching for file changes")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			rel, err := filepath.Rel(root, ev.Name)
			if err != nil {
				rel = ev.Name
			}
			log.WithFields(logrus.Fields{
				"file": filepath.ToSlash(rel),
				"op":   ev.Op.String(),
			}).Info("File changed")

			// New directories are not covered by the existing watches.
			if ev.Has(fsnotify.Create) {
				if err := addTree(w, ev.Name); err != nil {
					log.WithError(err).Warn("Failed to watch new path")
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("Watcher error")
		}
	}
}

// addTree watches dir and every directory below it, skipping hidden ones.
// A path that is not a directory is ignored.
func addTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}
