// Package logbuf keeps the most recent structured log entries in memory
// so operators can inspect them over the API.
package logbuf

import (
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultCapacity is the number of entries retained.
const DefaultCapacity = 1000

type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return l, nil
	case "warning":
		return LevelWarn, nil
	}
	return "", fmt.Errorf("unknown log level %q", s)
}

type Entry struct {
	Seq       uint64         `json:"seq"`
	Timestamp time.Time      `json:"timestamp"`
	Level     Level          `json:"level"`
	Module    string         `json:"module"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// Filter selects entries. Zero fields match everything; Limit <= 0 means no limit.
type Filter struct {
	Level  Level
	Module string
	Limit  int
}

type Stats struct {
	Total int `json:"total"`
	Debug int `json:"debug"`
	Info  int `json:"info"`
	Warn  int `json:"warn"`
	Error int `json:"error"`
}

// Sink receives every appended entry, outside the buffer lock.
type Sink interface {
	Write(Entry)
}

type SinkFunc func(Entry)

func (f SinkFunc) Write(e Entry) { f(e) }

// Buffer is a fixed-size ring of log entries. When full, appending
// evicts the oldest entry. It is safe for concurrent use.
type Buffer struct {
	mu      sync.Mutex
	ring    []Entry
	start   int
	count   int
	nextSeq uint64
	sinks   []Sink
	now     func() time.Time
}

func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		ring: make([]Entry, capacity),
		now:  time.Now,
	}
}

// AddSink registers s to receive entries appended after this call.
func (b *Buffer) AddSink(s Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks = append(b.sinks, s)
}

func (b *Buffer) Capacity() int { return len(b.ring) }

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Append records one entry and returns it with its sequence number set.
// Unknown levels are stored as info so Stats buckets always add up.
func (b *Buffer) Append(level Level, module, message string, data map[string]any, err error) Entry {
	if l, perr := ParseLevel(string(level)); perr == nil {
		level = l
	} else {
		level = LevelInfo
	}
	e := Entry{
		Level:   level,
		Module:  module,
		Message: message,
		Data:    maps.Clone(data),
	}
	if err != nil {
		e.Error = err.Error()
	}

	b.mu.Lock()
	b.nextSeq++
	e.Seq = b.nextSeq
	e.Timestamp = b.now()
	idx := (b.start + b.count) % len(b.ring)
	b.ring[idx] = e
	if b.count < len(b.ring) {
		b.count++
	} else {
		b.start = (b.start + 1) % len(b.ring)
	}
	sinks := b.sinks
	b.mu.Unlock()

	for _, s := range sinks {
		deliver(s, e)
	}
	return e
}

func deliver(s Sink, e Entry) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("log sink panicked", zap.Any("panic", r), zap.Uint64("seq", e.Seq))
		}
	}()
	s.Write(e)
}

func (b *Buffer) Debug(module, message string, data map[string]any) {
	b.Append(LevelDebug, module, message, data, nil)
}

func (b *Buffer) Info(module, message string, data map[string]any) {
	b.Append(LevelInfo, module, message, data, nil)
}

func (b *Buffer) Warn(module, message string, data map[string]any) {
	b.Append(LevelWarn, module, message, data, nil)
}

func (b *Buffer) Error(module, message string, data map[string]any, err error) {
	b.Append(LevelError, module, message, data, err)
}

// Query returns matching entries oldest first. With a limit, only the
// newest Limit matches are returned, still oldest first.
func (b *Buffer) Query(f Filter) []Entry {
	b.mu.Lock()
	out := make([]Entry, 0, b.count)
	for i := 0; i < b.count; i++ {
		e := b.ring[(b.start+i)%len(b.ring)]
		if f.Level != "" && e.Level != f.Level {
			continue
		}
		if f.Module != "" && e.Module != f.Module {
			continue
		}
		out = append(out, e)
	}
	b.mu.Unlock()

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[len(out)-f.Limit:]
	}
	return out
}

func (b *Buffer) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := Stats{Total: b.count}
	for i := 0; i < b.count; i++ {
		switch b.ring[(b.start+i)%len(b.ring)].Level {
		case LevelDebug:
			s.Debug++
		case LevelInfo:
			s.Info++
		case LevelWarn:
			s.Warn++
		case LevelError:
			s.Error++
		}
	}
	return s
}

// Clear drops every retained entry. Sequence numbers keep increasing.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.ring)
	b.start = 0
	b.count = 0
}
