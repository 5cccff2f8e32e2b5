// Package app bridges a single-threaded native event loop with any number
// of producer and consumer goroutines. Producers enqueue actions through a
// Handle; the loop goroutine drains them, dispatches native events to
// Windows and republishes normalized events on an outbound queue.
package app

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"

	"github.com/1broseidon/winbridge/internal/event"
	"github.com/1broseidon/winbridge/internal/platform"
	"github.com/1broseidon/winbridge/internal/signal"
)

// State is the application lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Builder assembles an Application before its loop starts.
type Builder struct {
	factory   platform.Factory
	wakeUps   []signal.Notifier
	semaphore signal.Notifier
	logger    *slog.Logger
}

// NewBuilder returns a builder that will construct its native loop with
// factory.
func NewBuilder(factory platform.Factory) *Builder {
	return &Builder{factory: factory}
}

// AddWakeUpSignaller registers a signaller fired once after every action
// drain.
func (b *Builder) AddWakeUpSignaller(n signal.Notifier) *Builder {
	if n != nil {
		b.wakeUps = append(b.wakeUps, n)
	}
	return b
}

// SetSemaphoreSignaller sets the signaller fired once per native event that
// produced normalized events. A later call replaces an earlier one.
func (b *Builder) SetSemaphoreSignaller(n signal.Notifier) *Builder {
	b.semaphore = n
	return b
}

func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// Build constructs the native loop. It must run on the goroutine that will
// call Application.Run.
func (b *Builder) Build() (*Application, error) {
	if b.factory == nil {
		return nil, fmt.Errorf("build application: no event loop factory")
	}
	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	loop, err := b.factory()
	if err != nil {
		return nil, fmt.Errorf("build event loop: %w", err)
	}

	h := &Handle{
		actions:  newActionQueue(),
		proxy:    loop.CreateProxy(),
		events:   event.NewQueue(),
		windows:  make(map[platform.WindowID]*Window),
		counters: &counters{},
		logger:   logger,
	}

	a := &Application{
		loop:      loop,
		handle:    h,
		wakeUps:   append([]signal.Notifier(nil), b.wakeUps...),
		semaphore: b.semaphore,
		logger:    logger,
	}
	h.state = &a.state
	return a, nil
}

// Application owns a native loop that has not yet been run.
type Application struct {
	loop      platform.EventLoop
	handle    *Handle
	wakeUps   []signal.Notifier
	semaphore signal.Notifier
	logger    *slog.Logger
	state     atomic.Int32
}

// Handle returns the shared producer/consumer handle.
func (a *Application) Handle() *Handle {
	return a.handle
}

func (a *Application) State() State {
	return State(a.state.Load())
}

// Run pumps the native loop on the calling goroutine, locked to its OS
// thread, until the loop exits. It can be called once.
func (a *Application) Run() error {
	if !a.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return ErrAlreadyRunning
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	r := &running{
		handle:    a.handle,
		wakeUps:   a.wakeUps,
		semaphore: a.semaphore,
		logger:    a.logger,
	}

	a.logger.Info("event loop starting")
	err := a.loop.Run(r)

	if dropped := a.handle.actions.discard(); dropped > 0 {
		a.handle.counters.actionsDropped.Add(uint64(dropped))
		a.logger.Warn("event loop stopped with actions pending", "dropped", dropped)
	}
	a.state.Store(int32(StateTerminated))
	a.handle.loopThread.Store(0)

	if err != nil {
		a.logger.Error("event loop failed", "error", err)
		return fmt.Errorf("run event loop: %w", err)
	}
	a.logger.Info("event loop stopped")
	return nil
}
