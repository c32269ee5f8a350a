// Package watch provides a filesystem watcher that re-runs a solution whenever its files change.
package watch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"

	"github.com/jakzo/aoc/src/cli/logging"
	"github.com/jakzo/aoc/src/fs"
	"github.com/jakzo/aoc/src/process"
)

var log = logging.Log

const debounceInterval = 50 * time.Millisecond

// A Runner is what we restart on changes; process.Runner implements it.
type Runner interface {
	Restart(ctx context.Context, cmds []process.Command)
	Stop()
}

// Watch runs the commands once and then again every time one of the given files changes,
// killing any previous run that is still going. Files are relative to dir; if none are given
// every file in dir is watched.
// It returns once the context is cancelled, after stopping any command still running.
func Watch(ctx context.Context, dir string, files []string, runner Runner, cmds []process.Command) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	w := &watch{
		dir:    filepath.Clean(dir),
		files:  map[string]struct{}{},
		dirs:   map[string]struct{}{},
		hashes: map[string]uint64{},
	}
	if err := w.addWatches(watcher, files); err != nil {
		return err
	}
	defer runner.Stop()
	runner.Restart(ctx, cmds)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-watcher.Events:
			pending := map[string]struct{}{}
			w.handle(watcher, event, pending)
			if len(pending) == 0 {
				continue
			}
			// Quick debounce; poll and collect all events for the next brief period.
		outer:
			for {
				select {
				case event := <-watcher.Events:
					w.handle(watcher, event, pending)
				case <-time.After(debounceInterval):
					break outer
				}
			}
			if changed := w.changed(pending); changed != "" {
				log.Notice("%s changed, re-running", changed)
				runner.Restart(ctx, cmds)
			}
		case err := <-watcher.Errors:
			log.Error("Error watching files: %s", err)
		}
	}
}

type watch struct {
	dir      string
	all      bool
	files    map[string]struct{}
	patterns []string
	// recursive is set when a pattern can match below the directories that exist at startup,
	// in which case new directories get watched as they're created.
	recursive bool
	dirs      map[string]struct{}
	hashes    map[string]uint64
}

func (w *watch) addWatches(watcher *fsnotify.Watcher, files []string) error {
	if len(files) == 0 {
		w.all = true
		if err := w.addDir(watcher, w.dir); err != nil {
			return err
		}
		entries, err := os.ReadDir(w.dir)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if entry.Type().IsRegular() {
				w.update(filepath.Join(w.dir, entry.Name()))
			}
		}
		return nil
	}
	for _, file := range files {
		if fs.IsGlob(file) {
			w.patterns = append(w.patterns, file)
			root := filepath.Join(w.dir, globRoot(file))
			recursive := isRecursive(file)
			if !fs.IsDirectory(root) {
				// It might turn up later, so watch from the top so we see it being created.
				root = w.dir
				recursive = true
			}
			if !recursive {
				if err := w.addDir(watcher, root); err != nil {
					return err
				}
				matches, err := fs.Glob(w.dir, []string{file})
				if err != nil {
					return err
				}
				for _, match := range matches {
					w.update(filepath.Join(w.dir, match))
				}
				continue
			}
			w.recursive = true
			matches, err := w.addTree(watcher, root)
			if err != nil {
				return err
			}
			for _, match := range matches {
				w.update(match)
			}
			continue
		}
		if !filepath.IsAbs(file) {
			file = filepath.Join(w.dir, file)
		}
		w.files[file] = struct{}{}
		w.update(file) // Prime the hash
		if err := w.addDir(watcher, filepath.Dir(file)); err != nil {
			return err
		}
	}
	return nil
}

// addDir adds a watch on a single directory, unless we're already watching it.
func (w *watch) addDir(watcher *fsnotify.Watcher, dir string) error {
	if _, present := w.dirs[dir]; present {
		return nil
	}
	log.Notice("Adding watch on %s", dir)
	w.dirs[dir] = struct{}{}
	return watcher.Add(dir)
}

// addTree watches root and every non-hidden directory below it.
// It returns the files found on the way that we're interested in.
func (w *watch) addTree(watcher *fsnotify.Watcher, root string) ([]string, error) {
	var files []string
	err := fs.Walk(root, func(name string, isDir bool) error {
		if w.hidden(name) {
			if isDir {
				return fs.SkipDir
			}
			return nil
		} else if isDir {
			return w.addDir(watcher, name)
		} else if w.watched(name) {
			files = append(files, name)
		}
		return nil
	})
	return files, err
}

// handle deals with a single filesystem event, adding anything that might have changed to pending.
func (w *watch) handle(watcher *fsnotify.Watcher, event fsnotify.Event, pending map[string]struct{}) {
	log.Debug("Event: %s", event)
	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		// fsnotify drops the watch along with the directory, so it needs adding again if it comes back.
		delete(w.dirs, event.Name)
	}
	if w.recursive && event.Op&fsnotify.Create != 0 && fs.IsDirectory(event.Name) && !w.hidden(event.Name) {
		// Files can be written into it before our watch is in place, so anything already there counts.
		files, err := w.addTree(watcher, event.Name)
		if err != nil {
			log.Warning("Failed to watch %s: %s", event.Name, err)
		}
		for _, file := range files {
			pending[file] = struct{}{}
		}
		return
	}
	if w.watched(event.Name) {
		pending[event.Name] = struct{}{}
	}
}

// hidden returns true if the given path is hidden relative to the directory we're watching.
func (w *watch) hidden(name string) bool {
	rel, err := filepath.Rel(w.dir, name)
	return err == nil && fs.IsHidden(rel)
}

// globRoot returns the leading directories of a pattern that don't contain any glob characters.
func globRoot(pattern string) string {
	parts := strings.Split(pattern, "/")
	for i, part := range parts {
		if fs.IsGlob(part) {
			return filepath.Join(parts[:i]...)
		}
	}
	return filepath.Join(parts[:len(parts)-1]...)
}

// isRecursive returns true if a pattern can match files in subdirectories of its root.
func isRecursive(pattern string) bool {
	rest := strings.TrimPrefix(strings.TrimPrefix(pattern, globRoot(pattern)), "/")
	return strings.Contains(rest, "**") || strings.Contains(rest, "/")
}

// watched returns true if the given file is one we're watching.
func (w *watch) watched(name string) bool {
	if w.all {
		return filepath.Dir(name) == w.dir
	}
	if _, present := w.files[name]; present {
		return true
	}
	rel, err := filepath.Rel(w.dir, name)
	if err != nil {
		return false
	}
	for _, pattern := range w.patterns {
		if match, _ := fs.Match(pattern, filepath.ToSlash(rel)); match {
			return true
		}
	}
	return false
}

// changed updates the stored hashes of the given files and returns the name of one whose contents
// differ from the last time we saw it, or the empty string if none do.
func (w *watch) changed(names map[string]struct{}) string {
	ret := ""
	for name := range names {
		if w.update(name) {
			ret = name
		}
	}
	return ret
}

// update rehashes a single file and returns true if it has changed.
func (w *watch) update(name string) bool {
	hash, err := hashFile(name)
	if err != nil {
		// It's been deleted (or is mid-rename). That counts as a change if we'd seen it before.
		_, seen := w.hashes[name]
		delete(w.hashes, name)
		return seen
	}
	if old, present := w.hashes[name]; present && old == hash {
		log.Debug("Skipping notification for %s, contents unchanged", name)
		return false
	}
	w.hashes[name] = hash
	return true
}

func hashFile(name string) (uint64, error) {
	f, err := os.Open(name)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
