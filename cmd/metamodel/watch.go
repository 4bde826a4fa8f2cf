package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce is how long the watcher waits for more changes before running.
const debounce = 200 * time.Millisecond

// documentExts are the extensions of the files the loader reads.
var documentExts = map[string]bool{".yaml": true, ".yml": true, ".json": true}

// watch runs fn once, then again whenever a model document under paths
// changes, until ctx is done. Failures of fn are logged and do not stop
// the watch.
func watch(ctx context.Context, log *slog.Logger, paths []string, fn func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer w.Close()
	for _, p := range paths {
		if err := addTree(w, p); err != nil {
			return err
		}
	}
	run := func() {
		if err := fn(); err != nil {
			log.Error("run failed", "error", err)
		}
	}
	run()
	timer := time.NewTimer(debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			log.Debug("model changed", "file", ev.Name, "op", ev.Op.String())
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addTree(w, ev.Name); err != nil {
						log.Warn("watch directory", "dir", ev.Name, "error", err)
					}
				}
			}
			timer.Reset(debounce)
		case <-timer.C:
			run()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("file watcher", "error", err)
		}
	}
}

// addTree watches root and the directories below it. A file root watches
// its directory.
func addTree(w *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	if !info.IsDir() {
		return w.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

// relevant reports whether an event touches a model document or creates a
// directory.
func relevant(ev fsnotify.Event) bool {
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return false
	}
	if strings.HasPrefix(filepath.Base(ev.Name), ".") {
		return false
	}
	if documentExts[strings.ToLower(filepath.Ext(ev.Name))] {
		return true
	}
	return ev.Has(fsnotify.Create) && filepath.Ext(ev.Name) == ""
}
