// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// =============================================================================
// CONFIG WATCHER
// =============================================================================

// watchDebounce coalesces the write+rename burst an atomic save produces
// into a single reload.
const watchDebounce = 250 * time.Millisecond

// Watcher reloads the config file when it changes on disk and hands the
// result to a callback. Editors and the `config set` command both trigger it.
type Watcher struct {
	path     string
	fsw      *fsnotify.Watcher
	onChange func(*Config)
	done     chan struct{}
}

// Watch starts watching path and invokes onChange with each successfully
// reloaded config. Reload failures are logged and skipped; the previous
// config stays in effect.
func Watch(path string, onChange func(*Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory, not the file: atomic saves replace the file and
	// a direct watch would die with the old inode.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     path,
		fsw:      fsw,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) run() {
	var timer *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			cfg, err := LoadFromPath(w.path)
			if err != nil {
				log.Warn().Err(err).Str("path", w.path).Msg("config reload failed, keeping previous")
				continue
			}
			w.onChange(cfg)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("config watcher error")
		}
	}
}
