package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Recorder hands finalized invocation records to the sink.
//
// Record never returns an error and never blocks the caller on sink I/O:
// the write is dispatched fire-and-forget with its own timeout, and any
// failure (or panic) inside the dispatch is logged locally and discarded.
// Callers must treat recording as best-effort.
type Recorder struct {
	sink    Sink
	log     *slog.Logger
	clock   func() time.Time
	timeout time.Duration

	wg sync.WaitGroup
}

// NewRecorder builds a Recorder. A nil sink is valid: recording degrades
// to a local diagnostic log, which keeps the telemetry path inert when no
// store is configured.
func NewRecorder(sink Sink, log *slog.Logger) *Recorder {
	if log == nil {
		log = slog.Default()
	}
	return &Recorder{
		sink:    sink,
		log:     log,
		clock:   time.Now,
		timeout: 10 * time.Second,
	}
}

// Record dispatches one invocation write. Safe to call from any goroutine.
func (r *Recorder) Record(inv Invocation) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("invocation record dispatch panicked", "panic", p)
		}
	}()

	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = r.clock().UTC()
	}

	if r.sink == nil {
		r.log.Debug("telemetry sink not configured; dropping invocation",
			"invocation_id", inv.ID, "route", inv.Route, "status", inv.StatusCode)
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				r.log.Error("invocation write panicked", "panic", p, "invocation_id", inv.ID)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := r.sink.Insert(ctx, inv); err != nil {
			r.log.Error("invocation write failed", "err", err, "invocation_id", inv.ID)
		}
	}()
}

// Flush waits for in-flight writes, bounded by ctx. Intended for graceful
// shutdown and tests.
func (r *Recorder) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
