// Package watcher monitors a log folder with OS-level notifications and
// feeds newly arrived files to the engine's append mode.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/logging"
)

// settleDelay is how long a file must stay quiet before it is considered
// fully written. Log shippers copy files in bursts.
const settleDelay = 500 * time.Millisecond

// Watcher monitors one folder for new log files.
type Watcher struct {
	fsw *fsnotify.Watcher
	log *logging.Logger

	// pending maps paths awaiting their settle deadline.
	pending map[string]time.Time
}

// New creates a Watcher on the given folder.
func New(dir string, log *logging.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	if log == nil {
		log = logging.Default()
	}
	return &Watcher{
		fsw:     fsw,
		log:     log.With(logging.Component("watcher")),
		pending: make(map[string]time.Time),
	}, nil
}

// Run blocks, appending each settled new file to the engine until the
// context is cancelled. A file is appended once, when it first settles
// after arriving in the folder; later growth of the same file is ignored.
func (w *Watcher) Run(ctx context.Context, appendFn func(ctx context.Context, path string) error) error {
	defer w.fsw.Close()

	ticker := time.NewTicker(settleDelay / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !isLogName(ev.Name) {
				continue
			}
			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Rename) != 0:
				w.pending[ev.Name] = time.Now().Add(settleDelay)
			case ev.Op&fsnotify.Write != 0:
				// Writes only push back the settle deadline of a file not
				// ingested yet. A live log growing in place after ingestion
				// would otherwise be re-read in full, duplicating every
				// event already in the collection.
				if _, waiting := w.pending[ev.Name]; waiting {
					w.pending[ev.Name] = time.Now().Add(settleDelay)
				}
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", logging.Err(err))
		case now := <-ticker.C:
			for path, due := range w.pending {
				if now.Before(due) {
					continue
				}
				delete(w.pending, path)
				if info, err := os.Stat(path); err != nil || info.IsDir() {
					continue
				}
				w.log.Info("appending new log", logging.Source(path))
				if err := appendFn(ctx, path); err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					w.log.Warn("append failed", logging.Source(path), logging.Err(err))
				}
			}
		}
	}
}

func isLogName(path string) bool {
	n := strings.ToLower(filepath.Base(path))
	if strings.HasPrefix(n, ".") {
		return false
	}
	return strings.HasSuffix(n, ".log") || strings.HasSuffix(n, ".txt") ||
		strings.HasSuffix(n, ".log.gz") || strings.HasSuffix(n, ".txt.gz") ||
		strings.HasSuffix(n, ".xml")
}
