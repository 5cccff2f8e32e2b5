// Package headless implements an in-memory native loop with no display.
// Windows exist only as records; events are injected by the caller. It
// backs tests and runs where no display server is reachable.
package headless

import (
	"errors"
	"sync"

	"github.com/1broseidon/winbridge/internal/platform"
)

// ErrCreateFailed is returned by CreateWindow after FailNextCreate.
var ErrCreateFailed = errors.New("headless: window creation failed")

type item struct {
	wake bool
	id   platform.WindowID
	ev   platform.WindowEvent
}

// Loop is a headless platform.EventLoop.
type Loop struct {
	mu      sync.Mutex
	pending []item
	woken   bool
	notify  chan struct{}
	exit    bool
	running bool

	nextID      platform.WindowID
	windows     map[platform.WindowID]*Window
	scale       float64
	failCreates int
	created     int
}

var _ platform.EventLoop = (*Loop)(nil)

// Option configures a Loop.
type Option func(*Loop)

// WithScaleFactor sets the scale factor given to new windows.
func WithScaleFactor(scale float64) Option {
	return func(l *Loop) {
		if scale > 0 {
			l.scale = scale
		}
	}
}

// New returns an idle loop.
func New(opts ...Option) *Loop {
	l := &Loop{
		notify:  make(chan struct{}, 1),
		windows: make(map[platform.WindowID]*Window),
		scale:   1,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CreateProxy implements platform.EventLoop.
func (l *Loop) CreateProxy() platform.Proxy {
	return proxy{l: l}
}

type proxy struct{ l *Loop }

func (p proxy) WakeUp() {
	p.l.mu.Lock()
	if !p.l.woken {
		p.l.woken = true
		p.l.pending = append(p.l.pending, item{wake: true})
	}
	p.l.mu.Unlock()
	p.l.signal()
}

func (l *Loop) signal() {
	select {
	case l.notify <- struct{}{}:
	default:
	}
}

// Run implements platform.EventLoop.
func (l *Loop) Run(h platform.Handler) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return errors.New("headless: loop already running")
	}
	l.running = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.running = false
		l.mu.Unlock()
	}()

	active := activeLoop{l: l}
	h.CanCreateSurfaces(active)

	for {
		l.mu.Lock()
		if l.exit {
			l.mu.Unlock()
			return nil
		}
		if len(l.pending) == 0 {
			l.mu.Unlock()
			<-l.notify
			continue
		}
		it := l.pending[0]
		l.pending[0] = item{}
		l.pending = l.pending[1:]
		if it.wake {
			l.woken = false
		}
		l.mu.Unlock()

		if it.wake {
			h.ProxyWakeUp(active)
			continue
		}
		if _, ok := it.ev.(platform.Destroyed); ok {
			l.mu.Lock()
			delete(l.windows, it.id)
			l.mu.Unlock()
		}
		h.WindowEvent(active, it.id, it.ev)
	}
}

// Inject queues a raw event for delivery on the loop goroutine. It is safe
// from any goroutine.
func (l *Loop) Inject(id platform.WindowID, ev platform.WindowEvent) {
	l.mu.Lock()
	l.pending = append(l.pending, item{id: id, ev: ev})
	l.mu.Unlock()
	l.signal()
}

// Quit stops Run after the event currently being dispatched.
func (l *Loop) Quit() {
	l.mu.Lock()
	l.exit = true
	l.mu.Unlock()
	l.signal()
}

// FailNextCreate makes the next n CreateWindow calls fail.
func (l *Loop) FailNextCreate(n int) {
	l.mu.Lock()
	l.failCreates += n
	l.mu.Unlock()
}

// Window returns the live window with the given id.
func (l *Loop) Window(id platform.WindowID) (*Window, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	w, ok := l.windows[id]
	return w, ok
}

// Windows returns the number of live windows.
func (l *Loop) Windows() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// Created returns how many windows were ever created.
func (l *Loop) Created() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.created
}

type activeLoop struct{ l *Loop }

func (a activeLoop) Exit() { a.l.Quit() }

func (a activeLoop) CreateWindow(attrs platform.WindowAttributes) (platform.Window, error) {
	l := a.l
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.failCreates > 0 {
		l.failCreates--
		return nil, ErrCreateFailed
	}

	l.nextID++
	size := platform.PhysicalSize{Width: 800, Height: 600}
	if attrs.SurfaceSize != nil {
		size = attrs.SurfaceSize.ToPhysical(l.scale)
	}
	w := &Window{
		loop:   l,
		id:     l.nextID,
		attrs:  attrs,
		size:   size,
		scale:  l.scale,
		cursor: platform.CursorDefault,
	}
	l.windows[w.id] = w
	l.created++
	return w, nil
}
