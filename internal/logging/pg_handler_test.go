package logging

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/models"
)

type memSink struct {
	mu      sync.Mutex
	batches [][]models.SystemLog
	err     error
}

func (s *memSink) WriteLogs(logs []models.SystemLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, logs)
	return s.err
}

func (s *memSink) all() []models.SystemLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.SystemLog
	for _, b := range s.batches {
		out = append(out, b...)
	}
	return out
}

func TestPGHandler_OnlyErrors(t *testing.T) {
	sink := &memSink{}
	h := NewPGHandler(sink, PGOptions{FlushInterval: time.Hour})
	logger := slog.New(h)

	logger.Info("request served")
	logger.Warn("slow query")
	logger.Error("save failed")
	h.Stop()

	logs := sink.all()
	if len(logs) != 1 {
		t.Fatalf("stored %d logs, want 1", len(logs))
	}
	if logs[0].Message != "save failed" || logs[0].Level != "ERROR" {
		t.Errorf("stored log = %+v", logs[0])
	}
}

func TestPGHandler_MapsColumns(t *testing.T) {
	sink := &memSink{}
	h := NewPGHandler(sink, PGOptions{FlushInterval: time.Hour})
	logger := slog.New(h).With("request_id", "req-1")

	logger.Error("mood analysis failed",
		"user_id", "u-1",
		"action", "ai_analyze",
		"error", errors.New("quota exceeded"),
		"latency_ms", 12.6,
		"model", "gemini",
	)
	h.Stop()

	logs := sink.all()
	if len(logs) != 1 {
		t.Fatalf("stored %d logs, want 1", len(logs))
	}
	got := logs[0]
	if got.RequestID != "req-1" {
		t.Errorf("request_id = %q, want req-1", got.RequestID)
	}
	if got.UserID == nil || *got.UserID != "u-1" {
		t.Errorf("user_id = %v, want u-1", got.UserID)
	}
	if got.Action != "ai_analyze" || got.Error != "quota exceeded" || got.LatencyMs != 13 {
		t.Errorf("columns = %+v", got)
	}

	var extra map[string]any
	if err := json.Unmarshal(got.Extra, &extra); err != nil {
		t.Fatalf("extra is not JSON: %v", err)
	}
	if extra["model"] != "gemini" || len(extra) != 1 {
		t.Errorf("extra = %v, want only model", extra)
	}
}

func TestPGHandler_FlushesFullBatch(t *testing.T) {
	sink := &memSink{}
	h := NewPGHandler(sink, PGOptions{BatchSize: 2, FlushInterval: time.Hour})
	defer h.Stop()
	logger := slog.New(h)

	logger.Error("one")
	logger.Error("two")

	deadline := time.Now().Add(2 * time.Second)
	for len(sink.all()) < 2 {
		if time.Now().After(deadline) {
			t.Fatal("full batch was not flushed")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestPGHandler_StopIsIdempotent(t *testing.T) {
	h := NewPGHandler(&memSink{}, PGOptions{})
	h.Stop()
	h.Stop()
}

func TestPGHandler_DropsAfterStop(t *testing.T) {
	sink := &memSink{}
	h := NewPGHandler(sink, PGOptions{BatchSize: 1, FlushInterval: time.Hour})
	logger := slog.New(h)
	h.Stop()

	logger.Error("after stop")
	logger.With("request_id", "req-2").Error("derived after stop")
	time.Sleep(50 * time.Millisecond)

	if got := len(sink.all()); got != 0 {
		t.Errorf("stored logs after Stop = %d, want 0", got)
	}
	h.state.mu.Lock()
	buffered := len(h.state.buffer)
	h.state.mu.Unlock()
	if buffered != 0 {
		t.Errorf("buffered after Stop = %d, want 0", buffered)
	}
}
