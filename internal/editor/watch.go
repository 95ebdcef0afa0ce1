package editor

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// startWatch reloads the buffer when its file changes on disk. The parent
// directory is watched so that editors which save by rename are seen too.
func (e *Editor) startWatch() {
	e.stopWatch()
	e.stopWatch = func() {}
	if e.filename == "" || e.screen == nil {
		return
	}
	path, err := filepath.Abs(e.filename)
	if err != nil {
		return
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		e.log.Warn("file watch unavailable", zap.Error(err))
		return
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		e.log.Warn("file watch unavailable", zap.String("dir", filepath.Dir(path)), zap.Error(err))
		_ = w.Close()
		return
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != path || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
					continue
				}
				e.post(func(e *Editor) { e.reloadFromDisk() })
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				e.log.Warn("file watch error", zap.Error(err))
			case <-done:
				return
			}
		}
	}()

	e.stopWatch = func() {
		close(done)
		_ = w.Close()
	}
}
