package cc

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
)

// Tunables is the subset of Config safe to change after a State already
// has live headers: the pieces of the allocation-site heuristic, plus the
// feature flags that only gate optional behavior rather than the shape of
// the counter/marker word itself. WeakPtrs is deliberately excluded — once
// a program may have constructed a Weak[T], turning it off underfoot would
// leave Upgrade observing a miscounted header.
type Tunables struct {
	AutoCollect       bool  `json:"autoCollect"`
	Finalization      bool  `json:"finalization"`
	Cleaners          bool  `json:"cleaners"`
	AllocThreshold    int64 `json:"allocThreshold"`
	BufferedThreshold int   `json:"bufferedThreshold"`
}

// TunablesFromConfig extracts the hot-reloadable fields of cfg.
func TunablesFromConfig(cfg Config) Tunables {
	return Tunables{
		AutoCollect:       cfg.AutoCollect,
		Finalization:      cfg.Finalization,
		Cleaners:          cfg.Cleaners,
		AllocThreshold:    cfg.AllocThreshold,
		BufferedThreshold: cfg.BufferedThreshold,
	}
}

// Apply writes t's fields back into cfg. Apply has no synchronization of
// its own: call it from the same goroutine that owns the State whose
// Config this is, the same discipline every other State-mutating entry
// point in this package requires.
func (t Tunables) Apply(cfg *Config) {
	cfg.AutoCollect = t.AutoCollect
	cfg.Finalization = t.Finalization
	cfg.Cleaners = t.Cleaners
	cfg.AllocThreshold = t.AllocThreshold
	cfg.BufferedThreshold = t.BufferedThreshold
}

// ConfigWatcher watches a JSON tunables file for changes and decodes each
// revision onto a channel, mirroring the event/error channel split a
// filesystem watcher normally exposes: detecting a change and acting on it
// are kept separate so the caller applies a reload on its own goroutine
// instead of a background one racing the collector.
type ConfigWatcher struct {
	w      *fsnotify.Watcher
	path   string
	reloC  chan Tunables
	erC    chan error
	closeC chan struct{}
}

// WatchConfig starts watching path for writes and renames, decoding path
// as JSON into a Tunables on every change it sees. The file need not exist
// yet; a create event is treated the same as a write.
func WatchConfig(path string) (*ConfigWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := w.Add(path); err != nil {
		_ = w.Close()
		return nil, err
	}

	cw := &ConfigWatcher{
		w:      w,
		path:   path,
		reloC:  make(chan Tunables, 1),
		erC:    make(chan error, 1),
		closeC: make(chan struct{}),
	}
	go cw.loop()

	return cw, nil
}

func (cw *ConfigWatcher) loop() {
	for {
		select {
		case ev, ok := <-cw.w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			t, err := decodeTunables(cw.path)
			if err != nil {
				cw.sendErr(err)
				continue
			}
			cw.sendReload(t)

		case err, ok := <-cw.w.Errors:
			if !ok {
				return
			}
			cw.sendErr(err)

		case <-cw.closeC:
			return
		}
	}
}

// sendReload delivers t, dropping a stale unread revision instead of
// blocking — a watcher only ever cares about the latest tunables, not
// every intermediate edit.
func (cw *ConfigWatcher) sendReload(t Tunables) {
	select {
	case cw.reloC <- t:
	default:
		select {
		case <-cw.reloC:
		default:
		}
		cw.reloC <- t
	}
}

func (cw *ConfigWatcher) sendErr(err error) {
	select {
	case cw.erC <- err:
	default:
	}
}

func decodeTunables(path string) (Tunables, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tunables{}, err
	}
	defer f.Close()

	var t Tunables
	if err := json.NewDecoder(f).Decode(&t); err != nil {
		return Tunables{}, fmt.Errorf("cc: decode tunables from %s: %w", path, err)
	}

	return t, nil
}

// Reloads yields one Tunables per accepted file revision.
func (cw *ConfigWatcher) Reloads() <-chan Tunables { return cw.reloC }

// Errors yields watch and decode failures; a failed decode does not stop
// the watcher from reporting subsequent revisions.
func (cw *ConfigWatcher) Errors() <-chan error { return cw.erC }

// Close stops the underlying filesystem watcher and its goroutine.
func (cw *ConfigWatcher) Close() error {
	close(cw.closeC)
	return cw.w.Close()
}
