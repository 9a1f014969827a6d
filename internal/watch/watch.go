// Package watch regenerates schema artifacts whenever the registry file
// changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mesh-intelligence/mdmreg/internal/exchange"
	"github.com/mesh-intelligence/mdmreg/pkg/schema"
)

// DefaultDebounce is how long the watcher waits after the last change
// before regenerating.
const DefaultDebounce = 100 * time.Millisecond

// Generate reads the registry at registryPath and writes the combined schema
// export plus the per-entity files for every key matching pattern into
// outDir. It returns the paths written.
func Generate(registryPath, outDir, pattern string, now time.Time) ([]string, error) {
	entities, err := exchange.LoadRegistryFile(registryPath, now)
	if err != nil {
		return nil, err
	}

	combined, err := exchange.ExportSchemas(entities, now)
	if err != nil {
		return nil, fmt.Errorf("encoding schemas: %w", err)
	}
	combinedPath := filepath.Join(outDir, exchange.SchemasFileName)
	if err := exchange.WriteFileAtomic(combinedPath, append(combined, '\n'), 0o644); err != nil {
		return nil, err
	}
	written := []string{combinedPath}

	set := schema.DeriveAll(entities)
	keys, err := exchange.SelectKeys(pattern, set.Keys())
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		paths, err := exchange.WriteEntityFiles(outDir, set, key)
		if err != nil {
			return nil, err
		}
		written = append(written, paths...)
	}
	return written, nil
}

// Watcher regenerates artifacts for one registry file.
type Watcher struct {
	registryPath string
	outDir       string
	pattern      string
	debounce     time.Duration
	logger       *slog.Logger
	now          func() time.Time
	onGenerate   func([]string, error)
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the watcher's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithPattern limits per-entity files to schema keys matching a glob.
func WithPattern(pattern string) Option {
	return func(w *Watcher) { w.pattern = pattern }
}

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithClock sets the time source stamped into generated exports.
func WithClock(now func() time.Time) Option {
	return func(w *Watcher) {
		if now != nil {
			w.now = now
		}
	}
}

// OnGenerate registers a callback invoked after every regeneration attempt.
func OnGenerate(fn func(paths []string, err error)) Option {
	return func(w *Watcher) { w.onGenerate = fn }
}

// New creates a watcher for registryPath writing into outDir.
func New(registryPath, outDir string, opts ...Option) *Watcher {
	w := &Watcher{
		registryPath: filepath.Clean(registryPath),
		outDir:       outDir,
		debounce:     DefaultDebounce,
		logger:       slog.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run generates once, then regenerates after each burst of changes to the
// registry file until ctx is cancelled. Generation failures are logged and
// do not stop the watcher; the next change retries.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	// Watch the directory: atomic saves replace the file, dropping a
	// watch on the file itself.
	dir := filepath.Dir(w.registryPath)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	w.logger.Info("watching registry", "path", w.registryPath, "out", w.outDir)

	w.generate()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.registryPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("registry changed", "op", event.Op.String())
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("fsnotify error", "error", err)
		case <-timer.C:
			w.generate()
		}
	}
}

func (w *Watcher) generate() {
	paths, err := Generate(w.registryPath, w.outDir, w.pattern, w.now())
	if err != nil {
		w.logger.Error("regeneration failed", "error", err)
	} else {
		w.logger.Info("regenerated schemas", "files", len(paths))
	}
	if w.onGenerate != nil {
		w.onGenerate(paths, err)
	}
}
