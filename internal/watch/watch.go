// Package watch processes subtitle files dropped into a directory.
//
// A watcher owns one directory: new or rewritten .srt files are debounced
// until write bursts settle, run through the pipeline, and written back next
// to the input with the output suffix. The tool's own outputs are ignored so
// a processed file never feeds back into the loop.
package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"

	"submerge/internal/domain/merge"
	"submerge/internal/errors"
	"submerge/internal/pipeline"
)

const lockFileName = ".submerge.lock"

// Config controls one watch session.
type Config struct {
	// Dir is the directory to watch. It must exist.
	Dir string
	// Suffix marks outputs, inserted before the extension (default ".merged").
	Suffix string
	// Debounce is how long a file must stay unchanged before processing
	// starts (default 400ms).
	Debounce time.Duration
	// Options configures every pipeline run of this session.
	Options merge.Options
}

// Watcher watches a directory and feeds settled subtitle files through the
// pipeline. Only one watcher may own a directory at a time.
type Watcher struct {
	cfg    Config
	deps   pipeline.Deps
	fsw    *fsnotify.Watcher
	lock   *flock.Flock
	logger *slog.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New validates the config, takes the directory lock, and starts watching.
// Call Run to begin processing and Close to release the directory.
func New(cfg Config, deps pipeline.Deps, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Suffix == "" {
		cfg.Suffix = ".merged"
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 400 * time.Millisecond
	}
	cfg.Options = cfg.Options.Normalized()
	if err := cfg.Options.Validate(); err != nil {
		return nil, err
	}

	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.KindConfig, "watch directory %s", cfg.Dir)
	}
	if !info.IsDir() {
		return nil, errors.Configf("watch path is not a directory: %s", cfg.Dir)
	}

	lock := flock.New(filepath.Join(cfg.Dir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire watch lock: %w", err)
	}
	if !ok {
		return nil, errors.Configf("another watcher already owns %s", cfg.Dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(cfg.Dir); err != nil {
		_ = fsw.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("watch %s: %w", cfg.Dir, err)
	}

	return &Watcher{
		cfg:     cfg,
		deps:    deps,
		fsw:     fsw,
		lock:    lock,
		logger:  logger,
		pending: make(map[string]*time.Timer),
	}, nil
}

// Run blocks, dispatching file events until the context is cancelled or the
// watcher is closed. Per-file failures are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("watching for subtitle files",
		"dir", w.cfg.Dir,
		"suffix", w.cfg.Suffix,
		"debounce", w.cfg.Debounce.String(),
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !w.wants(ev.Name) {
				continue
			}
			w.schedule(ctx, ev.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", "error", err)
		}
	}
}

// Close stops pending work and releases the directory lock.
func (w *Watcher) Close() error {
	w.mu.Lock()
	for _, t := range w.pending {
		t.Stop()
	}
	clear(w.pending)
	w.mu.Unlock()

	err := w.fsw.Close()
	if uerr := w.lock.Unlock(); uerr != nil && err == nil {
		err = uerr
	}
	return err
}

// wants reports whether the path is a subtitle input rather than one of the
// watcher's own outputs.
func (w *Watcher) wants(path string) bool {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if !strings.EqualFold(ext, ".srt") {
		return false
	}
	return !strings.HasSuffix(strings.TrimSuffix(base, ext), w.cfg.Suffix)
}

// schedule arms the debounce timer for path, restarting it while writes keep
// arriving.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.cfg.Debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		w.process(path)
	})
}

func (w *Watcher) process(path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		w.logger.Error("read subtitle file", "path", path, "error", err)
		return
	}
	res, err := pipeline.Run(string(raw), w.cfg.Options, nil, w.deps)
	if err != nil {
		w.logger.Error("process subtitle file", "path", path, "error", err)
		return
	}
	out := w.outputPath(path)
	if err := os.WriteFile(out, []byte(res.Output), 0o644); err != nil {
		w.logger.Error("write output", "path", out, "error", err)
		return
	}
	w.logger.Info("processed subtitle file",
		"input", filepath.Base(path),
		"output", filepath.Base(out),
		"before", res.BeforeCount,
		"after", res.AfterCount,
	)
}

func (w *Watcher) outputPath(path string) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return filepath.Join(dir, strings.TrimSuffix(base, ext)+w.cfg.Suffix+ext)
}
