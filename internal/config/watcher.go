package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/dkoosis/pulse/internal/logging"
)

// ReloadMsg carries a re-parsed config file. Err is set when the new
// content could not be used; the previous config stays in effect.
type ReloadMsg struct {
	Config *AppConfig
	Err    error
}

// Watcher reloads a config file whenever it changes.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	events  chan ReloadMsg
	done    chan struct{}
}

// NewWatcher watches path. The parent directory is watched so editors that
// replace the file on save are handled.
func NewWatcher(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		_ = fw.Close()
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher: fw,
		path:    abs,
		events:  make(chan ReloadMsg, 1),
		done:    make(chan struct{}),
	}
	go w.processEvents()
	return w, nil
}

func (w *Watcher) processEvents() {
	defer close(w.done)
	defer close(w.events)
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				logging.Warn("config reload failed", logging.F("path", w.path), logging.F("error", err))
			} else {
				logging.Info("config reloaded", logging.F("path", w.path))
			}
			w.deliver(ReloadMsg{Config: cfg, Err: err})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("config watch error: " + err.Error())
		}
	}
}

// deliver keeps only the newest pending reload.
func (w *Watcher) deliver(msg ReloadMsg) {
	select {
	case w.events <- msg:
		return
	default:
	}
	select {
	case <-w.events:
	default:
	}
	w.events <- msg
}

// Events delivers reloads. It is closed after Close.
func (w *Watcher) Events() <-chan ReloadMsg { return w.events }

// Path returns the watched file.
func (w *Watcher) Path() string { return w.path }

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
