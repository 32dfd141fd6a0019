package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the config whenever the file at path changes and passes the
// result to onChange. It blocks until ctx is cancelled.
//
// The parent directory is watched rather than the file: editors that save by
// renaming a temp file over the config replace the inode, which would drop a
// watch held on the file itself. A reload that fails validation is logged and
// the previous config stays in effect.
func Watch(ctx context.Context, path string, log *slog.Logger, onChange func(*Config)) error {
	target := filepath.Clean(path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating config watcher: %w", err)
	}
	defer w.Close()

	// Fail fast on a missing file; the directory watch alone would not.
	if _, err := Load(target); err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}
	log.Info("watching config", "path", target)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isConfigUpdate(ev, target) {
				continue
			}
			cfg, err := Load(target)
			if err != nil {
				log.Warn("config reload failed, keeping previous config", "path", target, "error", err)
				continue
			}
			log.Info("config reloaded", "path", target)
			onChange(cfg)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Error("config watcher", "error", err)
		}
	}
}

// isConfigUpdate reports whether ev leaves new content at target. A rename
// save shows up as Create on the target name.
func isConfigUpdate(ev fsnotify.Event, target string) bool {
	if filepath.Clean(ev.Name) != target {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}
