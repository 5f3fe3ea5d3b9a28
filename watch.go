package folio

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits for a burst of edits to
// settle before invalidating.
const DefaultDebounce = 300 * time.Millisecond

// ContentWatcher watches a local content directory and calls onChange once
// per burst of YAML edits.
type ContentWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	root     string
	onChange func()
	log      *zap.Logger
	debounce time.Duration

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewContentWatcher creates a watcher for root. It does not watch until Start.
func NewContentWatcher(root string, onChange func(), log *zap.Logger) (*ContentWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ContentWatcher{
		watcher:  w,
		root:     root,
		onChange: onChange,
		log:      log,
		debounce: DefaultDebounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start adds root and its subdirectories and begins delivering events.
// It does not block. Calling Start on a running watcher is a no-op.
func (cw *ContentWatcher) Start(ctx context.Context) error {
	cw.mu.Lock()
	if cw.running {
		cw.mu.Unlock()
		return nil
	}
	cw.running = true
	cw.mu.Unlock()

	err := filepath.WalkDir(cw.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return cw.watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		// Keep running: the event loop still owns doneCh and Stop waits on it.
		cw.log.Warn("content watch incomplete", zap.String("root", cw.root), zap.Error(err))
	} else {
		cw.log.Debug("watching content", zap.String("root", cw.root))
	}

	go cw.run(ctx)
	return err
}

// Stop ends the event loop and closes the underlying watcher.
func (cw *ContentWatcher) Stop() {
	cw.mu.Lock()
	running := cw.running
	cw.running = false
	cw.mu.Unlock()

	if running {
		close(cw.stopCh)
		<-cw.doneCh
	}
	if err := cw.watcher.Close(); err != nil {
		cw.log.Warn("closing content watcher", zap.Error(err))
	}
}

func (cw *ContentWatcher) run(ctx context.Context) {
	defer close(cw.doneCh)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-cw.stopCh:
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if !cw.relevant(event) {
				continue
			}
			cw.log.Debug("content changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(cw.debounce)
			} else {
				timer.Reset(cw.debounce)
			}
			fire = timer.C
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.log.Warn("content watcher error", zap.Error(err))
		case <-fire:
			fire = nil
			cw.onChange()
		}
	}
}

// relevant reports whether event affects content. New directories are
// added to the watch as a side effect.
func (cw *ContentWatcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = cw.watcher.Add(event.Name)
			return true
		}
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	return ext == ".yaml" || ext == ".yml"
}
