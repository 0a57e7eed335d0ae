// Package logging configures slog for the GenericBro API: console text
// output plus weekly rotating JSON files, with package-level accessors and a
// request-logging middleware.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// RotatingWriter appends to one log file per ISO week, starts a numbered
// continuation file when the active one would cross maxSize, and deletes
// files older than the retention period.
type RotatingWriter struct {
	dir       string
	maxSize   int64
	retention time.Duration

	mu   sync.Mutex
	file *os.File
	week string
	seq  int
	size int64

	cancel context.CancelFunc
	done   chan struct{}
}

// NewRotatingWriter creates the writer and starts the daily cleanup job.
func NewRotatingWriter(dir string, retentionWeeks int, maxSize int64) *RotatingWriter {
	ctx, cancel := context.WithCancel(context.Background())
	w := &RotatingWriter{
		dir:       dir,
		maxSize:   maxSize,
		retention: time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	go func() {
		defer close(w.done)
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.cleanup()
			}
		}
	}()

	return w
}

func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// Write implements io.Writer for the slog file handler.
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	wk := weekKey(time.Now())
	if w.file == nil || wk != w.week || (w.maxSize > 0 && w.size+int64(len(p)) > w.maxSize) {
		if err := w.rotate(wk); err != nil {
			return 0, err
		}
	}

	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

// rotate opens the next file for wk. Caller holds the lock.
func (w *RotatingWriter) rotate(wk string) error {
	if w.file != nil {
		_ = w.file.Close()
		w.file = nil
	}

	if wk != w.week {
		w.week = wk
		w.seq = 0
	} else {
		w.seq++
	}

	name := fmt.Sprintf("app-%s.log", wk)
	if w.seq > 0 {
		name = fmt.Sprintf("app-%s_%02d.log", wk, w.seq)
	}

	path := filepath.Join(w.dir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", path, err)
	}

	w.file = file
	w.size = 0
	if info, err := file.Stat(); err == nil {
		w.size = info.Size()
	}
	return nil
}

func (w *RotatingWriter) cleanup() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return
	}

	cutoff := time.Now().Add(-w.retention)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "app-") || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		_ = os.Remove(filepath.Join(w.dir, name))
	}
}

// Close stops the cleanup job and closes the active file.
func (w *RotatingWriter) Close() error {
	w.cancel()
	select {
	case <-w.done:
	case <-time.After(time.Second):
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}

// Setup builds the service logger: text on stdout, JSON in rotating files.
// If the log directory cannot be created it falls back to console only.
func Setup(logDir string, level slog.Level, retentionWeeks int, maxFileSize int64) *slog.Logger {
	console := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		logger := slog.New(console)
		logger.Error("Failed to create log directory, logging to console only", "dir", logDir, "error", err)
		return logger
	}

	writer := NewRotatingWriter(logDir, retentionWeeks, maxFileSize)
	file := slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level})

	return slog.New(&teeHandler{handlers: []slog.Handler{console, file}})
}

// teeHandler fans records out to each handler that accepts the level.
type teeHandler struct {
	handlers []slog.Handler
}

func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t *teeHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range t.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &teeHandler{handlers: next}
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		next[i] = h.WithGroup(name)
	}
	return &teeHandler{handlers: next}
}
