package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"os"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultBatchSize     = 50
	defaultFlushInterval = 5 * time.Second
)

// LogSink stores a batch of log rows.
type LogSink interface {
	WriteLogs(logs []models.SystemLog) error
}

// GormSink writes log rows to the system_logs table.
type GormSink struct {
	db *gorm.DB
}

func NewGormSink(db *gorm.DB) *GormSink {
	return &GormSink{db: db}
}

func (s *GormSink) WriteLogs(logs []models.SystemLog) error {
	return s.db.CreateInBatches(logs, defaultBatchSize).Error
}

// PGHandler is an slog.Handler that batches ERROR+ logs to a LogSink.
// Batches are written every FlushInterval or as soon as BatchSize rows
// are buffered.
type PGHandler struct {
	sink      LogSink
	batchSize int
	attrs     []slog.Attr

	state *pgState
}

// pgState is shared between a handler and the handlers derived from it
// with WithAttrs.
type pgState struct {
	mu       sync.Mutex
	buffer   []models.SystemLog
	ticker   *time.Ticker
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
	closed   bool
}

type PGOptions struct {
	BatchSize     int
	FlushInterval time.Duration
}

func NewPGHandler(sink LogSink, opts PGOptions) *PGHandler {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = defaultFlushInterval
	}

	h := &PGHandler{
		sink:      sink,
		batchSize: opts.BatchSize,
		state: &pgState{
			buffer:  make([]models.SystemLog, 0, opts.BatchSize),
			ticker:  time.NewTicker(opts.FlushInterval),
			done:    make(chan struct{}),
			stopped: make(chan struct{}),
		},
	}
	go h.flushLoop()
	return h
}

func (h *PGHandler) flushLoop() {
	defer close(h.state.stopped)
	for {
		select {
		case <-h.state.ticker.C:
			h.flush()
		case <-h.state.done:
			h.flush()
			return
		}
	}
}

func (h *PGHandler) flush() {
	s := h.state
	s.mu.Lock()
	if len(s.buffer) == 0 {
		s.mu.Unlock()
		return
	}
	batch := s.buffer
	s.buffer = make([]models.SystemLog, 0, h.batchSize)
	s.mu.Unlock()

	if err := h.sink.WriteLogs(batch); err != nil {
		// Not through slog: this handler would receive the record again.
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("failed to flush system logs", "error", err, "count", len(batch))
	}
}

// Stop flushes what is buffered and waits for the flush loop to exit.
func (h *PGHandler) Stop() {
	h.state.stopOnce.Do(func() {
		h.state.mu.Lock()
		h.state.closed = true
		h.state.mu.Unlock()
		h.state.ticker.Stop()
		close(h.state.done)
	})
	<-h.state.stopped
}

// Enabled only handles ERROR and above.
func (h *PGHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

// Handle buffers the record. After Stop records are dropped, since the sink
// may already be closed.
func (h *PGHandler) Handle(_ context.Context, record slog.Record) error {
	select {
	case <-h.state.done:
		return nil
	default:
	}

	entry := models.SystemLog{
		ID:        uuid.New(),
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	extra := make(map[string]interface{})
	apply := func(a slog.Attr) bool {
		switch a.Key {
		case "request_id":
			entry.RequestID = a.Value.String()
		case "user_id":
			s := a.Value.String()
			entry.UserID = &s
		case "action":
			entry.Action = a.Value.String()
		case "error":
			entry.Error = a.Value.String()
		case "latency_ms":
			switch a.Value.Kind() {
			case slog.KindFloat64:
				entry.LatencyMs = int(math.Round(a.Value.Float64()))
			case slog.KindInt64:
				entry.LatencyMs = int(a.Value.Int64())
			}
		default:
			extra[a.Key] = a.Value.Any()
		}
		return true
	}
	for _, a := range h.attrs {
		apply(a)
	}
	record.Attrs(apply)

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	s := h.state
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.buffer = append(s.buffer, entry)
	needFlush := len(s.buffer) >= h.batchSize
	s.mu.Unlock()

	if needFlush {
		go h.flush()
	}
	return nil
}

func (h *PGHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &PGHandler{sink: h.sink, batchSize: h.batchSize, attrs: merged, state: h.state}
}

// WithGroup is a no-op; system_logs has flat columns.
func (h *PGHandler) WithGroup(name string) slog.Handler {
	return h
}
