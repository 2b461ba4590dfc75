package view

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 200 * time.Millisecond

// watcher reparses templates when files under dir change.
type watcher struct {
	fsw    *fsnotify.Watcher
	reload func() error
	logger *slog.Logger
	done   chan struct{}
	once   sync.Once
}

func newWatcher(dir string, reload func() error, logger *slog.Logger) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	root := filepath.Join(dir, "templates")
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		_ = fsw.Close()
		return nil, err
	}
	w := &watcher{fsw: fsw, reload: reload, logger: logger, done: make(chan struct{})}
	go w.loop()
	logger.Info("template watcher started", slog.String("dir", root))
	return w, nil
}

func (w *watcher) loop() {
	var timer *time.Timer
	fire := make(chan struct{}, 1)
	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(ev.Name, ".html") {
				continue
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(reloadDebounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			}
		case <-fire:
			if err := w.reload(); err != nil {
				// Keep serving the last good set.
				w.logger.Error("template reload failed", slog.Any("error", err))
				continue
			}
			w.logger.Info("templates reloaded")
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("template watcher error", slog.Any("error", err))
		}
	}
}

// Close stops the watch loop and releases the fsnotify handle.
func (w *watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}
