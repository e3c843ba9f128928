package telemetry

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Collector is the egress interface to the remote collector. Emit must
// bound its own blocking (connect/write timeouts) and must not retry.
type Collector interface {
	Emit(ctx context.Context, snap Snapshot) error
	Close() error
}

// NopCollector discards every snapshot. Used when telemetry is off.
type NopCollector struct{}

func (NopCollector) Emit(context.Context, Snapshot) error { return nil }
func (NopCollector) Close() error                         { return nil }

// Reporter wraps a Collector with logging and counters. A failed emit
// is a warn line and a counter bump, nothing more: the window is
// skipped, not rescheduled.
type Reporter struct {
	collector Collector
	logger    *slog.Logger

	sent   atomic.Uint64
	failed atomic.Uint64
}

// NewReporter creates a reporter over the given collector.
func NewReporter(collector Collector, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{collector: collector, logger: logger}
}

// Report emits one snapshot. Returns true on success.
func (r *Reporter) Report(ctx context.Context, snap Snapshot) bool {
	if err := r.collector.Emit(ctx, snap); err != nil {
		r.failed.Add(1)
		r.logger.Warn("telemetry emit failed", "error", err, "failed", r.failed.Load())
		return false
	}
	r.sent.Add(1)
	return true
}

// Stats returns the number of successful and failed emits.
func (r *Reporter) Stats() (sent, failed uint64) {
	return r.sent.Load(), r.failed.Load()
}

// Close closes the underlying collector.
func (r *Reporter) Close() error {
	return r.collector.Close()
}
