package daemon

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/1broseidon/winbridge/internal/app"
	"github.com/1broseidon/winbridge/internal/event"
)

// DefaultMaxPendingEvents bounds the outbound queue when no client polls.
const DefaultMaxPendingEvents = 4096

// EventSource is the part of the application handle the reconciler reads.
type EventSource interface {
	Stats() app.Stats
	DrainEvents(max int) []event.WindowEvent
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval         time.Duration
	MaxPendingEvents int
	Logger           *slog.Logger
}

// Reconciler keeps the outbound event queue bounded and reports counters.
// It runs a pass on every tick and whenever the loop publishes events.
type Reconciler struct {
	interval  time.Duration
	maxEvents int
	source    EventSource
	published <-chan struct{}
	dropped   atomic.Uint64
	logger    *slog.Logger
}

// NewReconciler creates a new reconciler. published may be nil.
func NewReconciler(cfg ReconcilerConfig, source EventSource, published <-chan struct{}) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	maxEvents := cfg.MaxPendingEvents
	if maxEvents <= 0 {
		maxEvents = DefaultMaxPendingEvents
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		interval:  interval,
		maxEvents: maxEvents,
		source:    source,
		published: published,
		logger:    logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval, "max_pending_events", r.maxEvents)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped", "events_dropped", r.dropped.Load())
			return
		case <-r.published:
			r.reconcile(false)
		case <-ticker.C:
			r.reconcile(true)
		}
	}
}

// reconcile performs a single reconciliation pass.
func (r *Reconciler) reconcile(report bool) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	stats := r.source.Stats()
	if report {
		r.logger.Debug("application stats",
			"state", stats.State,
			"open_windows", stats.OpenWindows,
			"pending_actions", stats.PendingActions,
			"pending_events", stats.PendingEvents,
			"events_published", stats.EventsPublished,
			"create_failures", stats.CreateFailures,
			"panics_recovered", stats.PanicsRecovered)
	}

	excess := stats.PendingEvents - r.maxEvents
	if excess <= 0 {
		return
	}
	dropped := len(r.source.DrainEvents(excess))
	r.dropped.Add(uint64(dropped))
	r.logger.Warn("reconciler: dropped unpolled events",
		"dropped", dropped,
		"pending", stats.PendingEvents,
		"limit", r.maxEvents)
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow() {
	r.reconcile(true)
}

// Dropped returns how many events the reconciler has discarded.
func (r *Reconciler) Dropped() uint64 {
	return r.dropped.Load()
}
