package fieldstore

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/faciam-dev/matchinput/pkg/metrics"
	"github.com/faciam-dev/matchinput/pkg/registry"
	"github.com/faciam-dev/matchinput/pkg/registry/codec"
)

// ReadFile decodes the registry file at path.
func ReadFile(path string) ([]registry.FieldMeta, error) {
	p := filepath.Clean(path)
	b, err := os.ReadFile(p) // #nosec G304 -- operator supplied registry path
	if err != nil {
		return nil, err
	}
	return codec.DecodeYAML(b)
}

// LoadFile reads the registry file at path into s.
func LoadFile(s *Store, path string) error {
	metas, err := ReadFile(path)
	if err != nil {
		return err
	}
	return s.Load(metas)
}

// Watcher reloads a registry file into a Store whenever it changes. A file
// that fails to decode or build is logged and the previous fields stay.
type Watcher struct {
	path     string
	store    *Store
	debounce time.Duration
	logger   *zap.SugaredLogger

	stopOnce sync.Once
}

// DefaultDebounce is used when NewWatcher is given a non-positive debounce.
const DefaultDebounce = 500 * time.Millisecond

func NewWatcher(path string, store *Store, debounce time.Duration, logger *zap.SugaredLogger) *Watcher {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{path: filepath.Clean(path), store: store, debounce: debounce, logger: logger}
}

// Start begins watching. Returns stop function.
func (w *Watcher) Start(ctx context.Context) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		cancel()
		return nil, err
	}
	// watch the directory: editors often replace the file instead of writing it
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		cancel()
		return nil, err
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer fw.Close()
		for {
			select {
			case ev := <-fw.Events:
				if filepath.Clean(ev.Name) != w.path {
					continue
				}
				select {
				case changes <- struct{}{}:
				default:
				}
			case err := <-fw.Errors:
				if err != nil {
					w.logger.Warnw("fsnotify error", "err", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(w.debounce)
		defer ticker.Stop()
		pending := false
		for {
			select {
			case <-changes:
				pending = true
			case <-ticker.C:
				if !pending {
					continue
				}
				pending = false
				w.Reload()
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() { w.stopOnce.Do(cancel) }, nil
}

// Reload reads the file into the store now. Failures are logged and
// counted; the previous fields stay.
func (w *Watcher) Reload() {
	if err := LoadFile(w.store, w.path); err != nil {
		metrics.Reloads.WithLabelValues("error").Inc()
		w.logger.Warnw("registry reload failed, keeping previous fields", "path", w.path, "err", err)
		return
	}
	metrics.Reloads.WithLabelValues("ok").Inc()
	w.logger.Infow("registry reloaded", "path", w.path)
}
