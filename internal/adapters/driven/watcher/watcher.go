// Package watcher reports changes to the corpus folder using fsnotify.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/chpl-search/internal/core/ports/driven"
	"github.com/custodia-labs/chpl-search/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.CorpusWatcher = (*Watcher)(nil)

// DefaultDebounce coalesces bursts such as a file copy into one change.
const DefaultDebounce = 500 * time.Millisecond

var errAlreadyWatching = errors.New("watcher already started")

const relevantOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// Watcher watches a single corpus folder, non-recursively.
type Watcher struct {
	exts     map[string]struct{}
	debounce time.Duration

	mu  sync.Mutex
	fsw *fsnotify.Watcher
}

// New creates a watcher for files with the given extensions (without the dot).
// An empty extension list matches every file.
func New(extensions []string, debounce time.Duration) *Watcher {
	exts := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		exts[strings.TrimPrefix(strings.ToLower(ext), ".")] = struct{}{}
	}
	if debounce < 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{exts: exts, debounce: debounce}
}

// Watch starts watching dir. Changed paths arrive on the returned channel,
// sorted within each debounce window. The channel is closed when ctx is
// cancelled or Close is called.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw != nil {
		return nil, errAlreadyWatching
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	w.fsw = fsw

	out := make(chan string, 64)
	go w.loop(ctx, fsw, out)
	logger.Debug("watching %s", dir)
	return out, nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, out chan<- string) {
	defer close(out)
	defer fsw.Close()

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending = map[string]struct{}{}
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	flush := func() bool {
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		clear(pending)
		for _, p := range paths {
			select {
			case out <- p:
			case <-ctx.Done():
				return false
			}
		}
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if event.Op&relevantOps == 0 || !w.allowed(event.Name) {
				continue
			}
			pending[event.Name] = struct{}{}
			if w.debounce == 0 {
				if !flush() {
					return
				}
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			if !flush() {
				return
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}

func (w *Watcher) allowed(path string) bool {
	if len(w.exts) == 0 {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	_, ok := w.exts[ext]
	return ok
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw == nil {
		return nil
	}
	return w.fsw.Close()
}
