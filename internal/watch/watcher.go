// Package watch reports changes to scene description files so the
// application can rebuild the scene.
package watch

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/specialistvlad/scenevars/internal/ctxlog"
)

// DefaultDebounce is how long the directories must stay quiet before a
// batch of changes is reported.
const DefaultDebounce = 200 * time.Millisecond

// Watcher monitors directories for changes to files with one extension.
// Changes are coalesced: once no event arrived for the debounce period, the
// changed files are reported as one sorted batch.
type Watcher struct {
	Changes <-chan []string

	dirs     []string
	ext      string
	debounce time.Duration

	changes  chan []string
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	watcher  *fsnotify.Watcher
}

// New creates a watcher over dirs for files ending in ext. A debounce of
// zero means DefaultDebounce.
func New(dirs []string, ext string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	ch := make(chan []string, 1)
	return &Watcher{
		Changes:  ch,
		dirs:     dirs,
		ext:      ext,
		debounce: debounce,
		changes:  ch,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		watcher:  fw,
	}, nil
}

// Start begins watching. The loop logs through the logger of ctx. After a
// failed Start only Stop may be called.
func (w *Watcher) Start(ctx context.Context) error {
	for _, dir := range w.dirs {
		if err := w.watcher.Add(dir); err != nil {
			close(w.done)
			return err
		}
	}
	go w.loop(ctx)
	return nil
}

// Stop closes the watcher and the Changes channel. It is safe to call more
// than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		w.watcher.Close()
		<-w.done
		close(w.changes)
	})
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	logger := ctxlog.FromContext(ctx)

	pending := make(map[string]struct{})
	var last time.Time
	ticker := time.NewTicker(max(w.debounce/2, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				logger.Debug("Scene file changed.", "file", event.Name, "op", event.Op.String())
				pending[event.Name] = struct{}{}
				last = time.Now()
			}

		case <-ticker.C:
			if len(pending) == 0 || time.Since(last) < w.debounce {
				continue
			}
			batch := make([]string, 0, len(pending))
			for file := range pending {
				batch = append(batch, file)
			}
			slices.Sort(batch)
			clear(pending)

			select {
			case w.changes <- batch:
			case <-w.stop:
				return
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("File watcher error.", "error", err)
		}
	}
}

func (w *Watcher) relevant(name string) bool {
	return strings.HasSuffix(filepath.Base(name), w.ext)
}
