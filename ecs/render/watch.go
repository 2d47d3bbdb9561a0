package render

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Watcher reports texture files that changed below a root directory as
// handles relative to that root. A file is reported once it has been quiet
// for 100ms, so a save written in several chunks yields one handle after
// the last chunk.
type Watcher struct {
	watcher *fsnotify.Watcher
	root    string
	Events  chan Handle
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewWatcher(root string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
	if err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		watcher: w,
		root:    root,
		Events:  make(chan Handle, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	pending := make(map[Handle]time.Time)
	quiet := time.NewTimer(watchDebounce)
	quiet.Stop()
	defer quiet.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.watcher.Add(event.Name)
					continue
				}
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			h, ok := w.handle(event.Name)
			if !ok {
				continue
			}
			pending[h] = time.Now()
			quiet.Reset(watchDebounce)
		case <-quiet.C:
			if next := w.flush(pending); next > 0 {
				quiet.Reset(next)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// flush emits every pending handle that has been quiet for the debounce
// window and returns how long until the next one will be.
func (w *Watcher) flush(pending map[Handle]time.Time) time.Duration {
	now := time.Now()
	var ready []Handle
	var next time.Duration
	for h, at := range pending {
		if wait := watchDebounce - now.Sub(at); wait > 0 {
			if next == 0 || wait < next {
				next = wait
			}
			continue
		}
		ready = append(ready, h)
	}
	slices.Sort(ready)
	for _, h := range ready {
		select {
		case w.Events <- h:
			delete(pending, h)
		case <-w.closeCh:
			return 0
		}
	}
	return next
}

func (w *Watcher) handle(name string) (Handle, bool) {
	if !IsImageFile(name) {
		return "", false
	}
	rel, err := filepath.Rel(w.root, name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return Handle(filepath.ToSlash(rel)), true
}
