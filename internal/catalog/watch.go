package catalog

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RebuildCallback is called after every watcher-driven rebuild attempt with
// either the new snapshot or the error that kept the previous one current.
type RebuildCallback func(snap *Snapshot, err error)

// Watch starts an fsnotify watcher on the site root and rebuilds whenever the
// topic file or an entry changes, until ctx is cancelled. Bursts of events
// within debounce collapse into a single rebuild.
//
// New directories created at runtime are added to the watch list.
func (s *Service) Watch(ctx context.Context, debounce time.Duration, cb RebuildCallback) error {
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	root := s.store.Root()
	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	s.logger.Info("watcher: started", slog.String("root", root))

	var timer *time.Timer
	var timerCh <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			s.logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			timer = nil
			timerCh = nil
			snap, err := s.Rebuild(ctx)
			if cb != nil {
				cb(snap, err)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						s.logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					schedule()
					continue
				}
			}

			rel, relErr := filepath.Rel(root, ev.Name)
			if relErr != nil || !s.relevant(filepath.ToSlash(rel)) {
				continue
			}
			s.logger.Debug("watcher: change", slog.String("path", rel), slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// relevant reports whether a change to rel (slash-separated, relative to the
// site root) can affect the catalog.
func (s *Service) relevant(rel string) bool {
	if rel == path.Clean(s.layout.TopicsFile) {
		return true
	}
	if !strings.HasSuffix(rel, ".md") {
		return false
	}
	dir := path.Clean(s.layout.EntriesDir)
	return dir == "." || strings.HasPrefix(rel, dir+"/")
}

// addDirsRecursive adds dir and all its non-hidden subdirectories to w.
func addDirsRecursive(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.Add(p)
	})
}
