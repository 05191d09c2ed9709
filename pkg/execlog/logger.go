package execlog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/codeready-toolchain/research-core/pkg/config"
)

// DefaultBufferSize is the number of events retained in memory for fast,
// file-free access (e.g. by a status endpoint) before drop-oldest kicks in.
const DefaultBufferSize = 500

// Logger appends events to a JSONL file and retains a bounded in-memory
// tail of recent events. Safe for concurrent use by every goroutine in the
// parallel executor and the research scheduling loop.
type Logger struct {
	path     string
	redactor *config.Redactor

	mu        sync.Mutex
	buf       []Event
	maxBuf    int
	f         *os.File
	dropCount int
}

// New creates a Logger that appends to path, creating parent directories
// as needed. redactor may be nil, in which case no redaction is applied.
func New(path string, redactor *config.Redactor) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("execlog: creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, fmt.Errorf("execlog: opening %s: %w", path, err)
	}
	return &Logger{
		path:     path,
		redactor: redactor,
		maxBuf:   DefaultBufferSize,
		f:        f,
	}, nil
}

// Log redacts, persists, and buffers ev. A failure to write the durable
// JSONL file is returned to the caller — unlike ambient debug logging,
// losing an execution-log record is a correctness concern a caller of
// run_research may want to surface — but the in-memory buffer is always
// updated regardless, so Recent() stays consistent even under disk
// pressure.
func (l *Logger) Log(ev Event) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = nowFunc()
	}
	if l.redactor != nil {
		ev.Message = l.redactor.Redact(ev.Message)
		for k, v := range ev.Data {
			if s, ok := v.(string); ok {
				ev.Data[k] = l.redactor.Redact(s)
			}
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.bufferLocked(ev)

	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("execlog: marshal event: %w", err)
	}
	line = append(line, '\n')
	if _, err := l.f.Write(line); err != nil {
		return fmt.Errorf("execlog: write event: %w", err)
	}
	return nil
}

// bufferLocked appends ev to the in-memory tail, dropping the oldest
// non-critical event when the buffer is full. If every buffered event is
// critical, the oldest critical event is dropped anyway and the loss is
// logged — a full buffer of critical events still must not grow unbounded.
func (l *Logger) bufferLocked(ev Event) {
	if len(l.buf) < l.maxBuf {
		l.buf = append(l.buf, ev)
		return
	}

	for i, existing := range l.buf {
		if !existing.Critical() {
			l.buf = append(l.buf[:i], l.buf[i+1:]...)
			l.buf = append(l.buf, ev)
			l.dropCount++
			return
		}
	}

	slog.Warn("execlog: buffer full of critical events, dropping oldest",
		"run_id", ev.RunID, "dropped_type", l.buf[0].Type)
	l.buf = append(l.buf[1:], ev)
	l.dropCount++
}

// Recent returns a copy of the in-memory event buffer, oldest first.
func (l *Logger) Recent() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Event, len(l.buf))
	copy(out, l.buf)
	return out
}

// DropCount returns how many buffered (not persisted) events have been
// evicted since the Logger was created.
func (l *Logger) DropCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dropCount
}

// Close flushes and closes the underlying file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// nowFunc is overridden in tests.
var nowFunc = defaultNow
