package partial

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"
)

// RootWatcher invalidates a DirRoots cache when anything under its roots is
// created, removed or renamed. The parent of every root is watched too, so
// roots that appear later are picked up.
type RootWatcher struct {
	roots    *DirRoots
	watcher  *fsnotify.Watcher
	logger   hclog.Logger
	onChange func(path string)

	done chan struct{}
	once sync.Once
}

// WatchRoots starts watching roots. onChange, if set, runs on the watcher
// goroutine after the cache was invalidated.
func WatchRoots(roots *DirRoots, logger hclog.Logger, onChange func(path string)) (*RootWatcher, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	rw := &RootWatcher{
		roots:    roots,
		watcher:  w,
		logger:   logger,
		onChange: onChange,
		done:     make(chan struct{}),
	}

	parents := make(map[string]bool)
	for _, d := range roots.Dirs() {
		if p := filepath.Dir(d); !parents[p] && dirExists(p) {
			parents[p] = true
			if err := w.Add(p); err != nil {
				logger.Debug("cannot watch root parent", "dir", p, "error", err)
			}
		}
		rw.addRecursive(d)
	}

	go rw.loop()
	return rw, nil
}

// Close stops the watcher.
func (rw *RootWatcher) Close() error {
	var err error
	rw.once.Do(func() {
		err = rw.watcher.Close()
		<-rw.done
	})
	return err
}

func (rw *RootWatcher) addRecursive(dir string) {
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if skipDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := rw.watcher.Add(path); err != nil {
			rw.logger.Debug("cannot watch directory", "dir", path, "error", err)
		}
		return nil
	})
}

func (rw *RootWatcher) loop() {
	defer close(rw.done)
	for {
		select {
		case event, ok := <-rw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if event.Has(fsnotify.Create) && dirExists(event.Name) && rw.underRoot(event.Name) {
				rw.addRecursive(event.Name)
			}
			rw.logger.Debug("template namespace changed", "path", event.Name, "op", event.Op.String())
			rw.roots.Invalidate()
			if rw.onChange != nil {
				rw.onChange(event.Name)
			}
		case err, ok := <-rw.watcher.Errors:
			if !ok {
				return
			}
			rw.logger.Warn("watcher error", "error", err)
		}
	}
}

func (rw *RootWatcher) underRoot(path string) bool {
	for _, d := range rw.roots.Dirs() {
		if rel, err := filepath.Rel(d, path); err == nil && filepath.IsLocal(rel) || path == d {
			return true
		}
	}
	return false
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
