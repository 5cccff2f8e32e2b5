package event

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/1broseidon/winbridge/internal/platform"
)

// Queue is an unbounded FIFO of WindowEvents shared between the loop
// goroutine (producer) and any number of pollers.
type Queue struct {
	mu    sync.Mutex
	items *queue.Queue
	total uint64
}

func NewQueue() *Queue {
	return &Queue{items: queue.New()}
}

// Push appends events for one window in order.
func (q *Queue) Push(id platform.WindowID, events ...Event) {
	if len(events) == 0 {
		return
	}
	q.mu.Lock()
	for _, ev := range events {
		q.items.Add(WindowEvent{WindowID: id, Event: ev})
	}
	q.total += uint64(len(events))
	q.mu.Unlock()
}

// Poll removes and returns the oldest event. ok is false when the queue is
// empty.
func (q *Queue) Poll() (ev WindowEvent, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.items.Length() == 0 {
		return WindowEvent{}, false
	}
	ev = q.items.Peek().(WindowEvent)
	q.items.Remove()
	return ev, true
}

// Drain removes up to max events; max <= 0 drains everything.
func (q *Queue) Drain(max int) []WindowEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := q.items.Length()
	if max > 0 && max < n {
		n = max
	}
	out := make([]WindowEvent, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, q.items.Peek().(WindowEvent))
		q.items.Remove()
	}
	return out
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Length()
}

// Total returns how many events were ever pushed.
func (q *Queue) Total() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.total
}
