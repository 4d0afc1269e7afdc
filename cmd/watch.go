// Copyright © 2025 The MON authors

package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
)

var watchLog = commonlog.GetLogger("mon.watch")

// watchDebounce is how long a file must stay quiet after a change before
// it is handled.  Editors often write a file in several steps.
const watchDebounce = 100 * time.Millisecond

// watchFiles calls handle with the path of every watched .mon file that is
// written or created, until ctx is done.  A file argument is watched
// through its directory so files replaced on save keep being observed.
// Directory arguments are watched recursively.
func watchFiles(ctx context.Context, paths []string, handle func(path string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	files := make(map[string]bool)   // file arguments
	trees := make(map[string]bool)   // directories below a directory argument
	watched := make(map[string]bool) // directories added to w
	for _, p := range paths {
		p = filepath.Clean(p)
		info, err := os.Stat(p)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files[p] = true
			watched[filepath.Dir(p)] = true
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != p && (strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules") {
				return filepath.SkipDir
			}
			trees[path] = true
			watched[path] = true
			return nil
		})
		if err != nil {
			return err
		}
	}
	for dir := range watched {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		watchLog.Infof("watching %s", dir)
	}

	done := make(chan struct{})
	defer close(done)
	fire := make(chan string)
	pending := make(map[string]*time.Timer)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			watchLog.Errorf("watch error: %s", err)
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			path := filepath.Clean(ev.Name)
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if filepath.Ext(path) != monExt || !(files[path] || trees[filepath.Dir(path)]) {
				continue
			}
			watchLog.Debugf("%s: %s", ev.Op, path)
			if t, ok := pending[path]; ok {
				t.Reset(watchDebounce)
				continue
			}
			pending[path] = time.AfterFunc(watchDebounce, func() {
				select {
				case fire <- path:
				case <-done:
				}
			})
		case path := <-fire:
			delete(pending, path)
			handle(path)
		}
	}
}
