package app

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/1broseidon/winbridge/internal/platform"
)

// Action is a command executed on the loop thread.
type Action interface {
	action()
}

// FunctionCall runs Fn on the loop thread. A panic in Fn is not recovered.
type FunctionCall struct {
	Fn func()
}

// CreateWindow creates a native window and, once its Window is registered,
// calls OnCreated on the loop thread. OnCreated may be nil.
type CreateWindow struct {
	Attributes platform.WindowAttributes
	OnCreated  func(*Window)
}

// RequestSurfaceSize asks an open window for a new surface size. Unknown
// or closed windows are ignored.
type RequestSurfaceSize struct {
	WindowID platform.WindowID
	Size     platform.PhysicalSize
}

// Exit stops the native loop. Later sends fail with ErrApplicationStopped.
type Exit struct{}

func (FunctionCall) action()       {}
func (CreateWindow) action()       {}
func (RequestSurfaceSize) action() {}
func (Exit) action()               {}

// actionQueue is an unbounded multi-producer, single-consumer FIFO.
type actionQueue struct {
	mu     sync.Mutex
	items  *queue.Queue
	closed bool
}

func newActionQueue() *actionQueue {
	return &actionQueue{items: queue.New()}
}

func (q *actionQueue) send(a Action) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrApplicationStopped
	}
	q.items.Add(a)
	return nil
}

// tryRecv pops the oldest action without blocking.
func (q *actionQueue) tryRecv() (Action, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.items.Length() == 0 {
		return nil, false
	}
	a := q.items.Peek().(Action)
	q.items.Remove()
	return a, true
}

func (q *actionQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
}

// discard closes the queue and drops whatever is still pending, returning
// how many actions were dropped.
func (q *actionQueue) discard() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	n := q.items.Length()
	for q.items.Length() > 0 {
		q.items.Remove()
	}
	return n
}

func (q *actionQueue) isClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

func (q *actionQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Length()
}
