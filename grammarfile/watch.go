package grammarfile

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/fsnotify/fsnotify"

	"github.com/serialconsole/tokenline"
	"github.com/serialconsole/tokenline/internal/symwalk"
)

// symwalkDirs visits every directory under root, including root itself,
// calling fn with each one's path.
func symwalkDirs(root string, fn func(dir string)) error {
	return symwalk.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			fn(path)
		}
		return nil
	})
}

// Watcher reloads a grammar directory whenever a file under it changes and
// hands the recompiled tree to a callback. It never calls the callback
// concurrently with itself: every reload is driven from the single
// goroutine started by Run.
type Watcher struct {
	root string
	fsw  *fsnotify.Watcher
	log  tokenline.Logger

	onReload func(tokenline.TokenList, tokenline.TokenDict)
	onError  func(error)
}

// NewWatcher opens an fsnotify watch on root (and every directory beneath
// it, since fsnotify does not watch recursively on its own) and performs
// one synchronous initial Load so the caller has a grammar in hand before
// Run's background goroutine starts.
func NewWatcher(root string, log tokenline.Logger) (*Watcher, tokenline.TokenList, tokenline.TokenDict, error) {
	if log == nil {
		log = tokenline.NewLogger(nil)
	}

	list, dict, err := Load(root)
	if err != nil {
		return nil, nil, nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("grammarfile: watcher: %w", err)
	}
	if err := addRecursive(fsw, root); err != nil {
		fsw.Close()
		return nil, nil, nil, err
	}

	return &Watcher{root: root, fsw: fsw, log: log}, list, dict, nil
}

func addRecursive(fsw *fsnotify.Watcher, root string) error {
	var walkErr error
	err := symwalkDirs(root, func(dir string) {
		if err := fsw.Add(dir); err != nil {
			walkErr = err
		}
	})
	if err != nil {
		return err
	}
	return walkErr
}

// OnReload registers the callback invoked with a freshly compiled grammar
// after each change. OnError registers the callback invoked when a
// reload fails to parse; the previous grammar stays in effect.
func (w *Watcher) OnReload(fn func(tokenline.TokenList, tokenline.TokenDict)) { w.onReload = fn }
func (w *Watcher) OnError(fn func(error))                                    { w.onError = fn }

// Run watches for filesystem events until stop is closed, reloading and
// invoking the registered callbacks on every write, create, remove or
// rename event; events are not debounced. It is meant
// to run in its own goroutine; a host typically defers a hot-swap until
// the operator's line is idle rather than applying it mid-keystroke, by
// having OnReload hand the new grammar to a channel the input loop polls
// between Feed calls rather than calling Engine.SetGrammar directly from
// here.
func (w *Watcher) Run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

func (w *Watcher) reload() {
	list, dict, err := Load(w.root)
	if err != nil {
		w.log.Debug("grammar reload failed", "error", err)
		if w.onError != nil {
			w.onError(err)
		}
		return
	}
	w.log.Debug("grammar reloaded", "root", w.root)
	if w.onReload != nil {
		w.onReload(list, dict)
	}
}

// Close stops watching and releases the underlying inotify (or platform
// equivalent) handle.
func (w *Watcher) Close() error { return w.fsw.Close() }
