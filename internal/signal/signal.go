// Package signal holds the fire-and-forget notification primitives used to
// tell consumer threads that the loop thread did something.
package signal

// Notifier is anything that can be poked from any goroutine without
// waiting for a result. Implementations must be safe for concurrent use.
type Notifier interface {
	Signal()
}

// WakeUpFunc is an opaque callback that receives the context it was
// registered with.
type WakeUpFunc func(thunk uintptr)

// SemaphoreFunc is an opaque callback receiving the semaphore index and
// the registered context.
type SemaphoreFunc func(index int, thunk uintptr)

// WakeUpSignaller invokes its callback after every action drain on the
// loop thread.
type WakeUpSignaller struct {
	callback WakeUpFunc
	thunk    uintptr
}

var _ Notifier = WakeUpSignaller{}

// NewWakeUpSignaller pairs a callback with its opaque context.
func NewWakeUpSignaller(callback WakeUpFunc, thunk uintptr) WakeUpSignaller {
	return WakeUpSignaller{callback: callback, thunk: thunk}
}

// Signal invokes the callback. A signaller without a callback does nothing.
func (s WakeUpSignaller) Signal() {
	if s.callback == nil {
		return
	}
	s.callback(s.thunk)
}

// SemaphoreSignaller models "increment semaphore N" so that one consumer
// can wait on several sources and tell them apart by index.
type SemaphoreSignaller struct {
	callback SemaphoreFunc
	index    int
	thunk    uintptr
}

var _ Notifier = SemaphoreSignaller{}

// NewSemaphoreSignaller pairs a callback with its semaphore index and context.
func NewSemaphoreSignaller(callback SemaphoreFunc, index int, thunk uintptr) SemaphoreSignaller {
	return SemaphoreSignaller{callback: callback, index: index, thunk: thunk}
}

// Index returns the semaphore index passed to the callback.
func (s SemaphoreSignaller) Index() int {
	return s.index
}

// Signal invokes the callback with the semaphore index.
func (s SemaphoreSignaller) Signal() {
	if s.callback == nil {
		return
	}
	s.callback(s.index, s.thunk)
}

// Func adapts a plain function to a Notifier.
type Func func()

// Signal calls f.
func (f Func) Signal() {
	if f != nil {
		f()
	}
}

// Chan is a Notifier backed by a buffered channel of capacity one.
// Signals coalesce: a consumer that has not drained the previous signal
// sees a single pending notification.
type Chan struct {
	ch chan struct{}
}

// NewChan returns a coalescing channel notifier.
func NewChan() *Chan {
	return &Chan{ch: make(chan struct{}, 1)}
}

// Signal marks the channel as pending without blocking.
func (c *Chan) Signal() {
	select {
	case c.ch <- struct{}{}:
	default:
	}
}

// C returns the channel consumers wait on.
func (c *Chan) C() <-chan struct{} {
	return c.ch
}
