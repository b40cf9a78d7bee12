package telemetry

import (
	"context"
	"errors"
	"sync"
)

// Sink is the persistence contract for invocation records.
//
// It MUST be append-only: no update, delete, or read methods by design.
// Implementations must be safe for concurrent use by many in-flight
// requests without per-request locking.
type Sink interface {
	Insert(ctx context.Context, inv Invocation) error
}

// MultiSink fans one record out to several sinks. Each target is isolated:
// one failing sink never prevents the others from receiving the record.
type MultiSink struct {
	sinks []Sink
}

func NewMultiSink(sinks ...Sink) *MultiSink {
	out := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return &MultiSink{sinks: out}
}

func (m *MultiSink) Insert(ctx context.Context, inv Invocation) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Insert(ctx, inv); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MemorySink is a simple in-memory append-only sink useful for tests.
// It is not intended for production use.
type MemorySink struct {
	mu   sync.Mutex
	rows []Invocation
}

func NewMemorySink() *MemorySink { return &MemorySink{} }

func (s *MemorySink) Insert(ctx context.Context, inv Invocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, inv)
	return nil
}

func (s *MemorySink) Invocations() []Invocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Invocation, len(s.rows))
	copy(out, s.rows)
	return out
}
