package ffi

import (
	"github.com/1broseidon/winbridge/internal/app"
	"github.com/1broseidon/winbridge/internal/event"
	"github.com/1broseidon/winbridge/internal/signal"
)

// HandleWakeUp wakes the loop. It reports false for an invalid handle.
func (b *Bridge) HandleWakeUp(h Handle) bool {
	handle, err := b.handles.Borrow(h)
	if err != nil {
		return false
	}
	handle.WakeUp()
	return true
}

// HandleCreateWindow consumes the attributes and the optional semaphore
// (zero for none) once the request is queued; if any handle is invalid or
// the application has stopped, nothing is consumed. On the loop thread the
// new window is boxed, passed to onCreated, and then the semaphore is
// signalled.
func (b *Bridge) HandleCreateWindow(h, attributes, semaphore Handle, onCreated CreatedFunc, thunk uintptr) bool {
	handle, err := b.handles.Borrow(h)
	if err != nil {
		return false
	}
	attrs, err := b.attributes.Borrow(attributes)
	if err != nil {
		return false
	}
	var sem signal.Notifier
	if semaphore != 0 {
		borrowed, err := b.semaphores.Borrow(semaphore)
		if err != nil {
			return false
		}
		sem = borrowed
	}

	err = handle.CreateWindow(attrs, func(w *app.Window) {
		boxed := b.windows.Box(w)
		if onCreated != nil {
			onCreated(thunk, boxed)
		}
		if sem != nil {
			sem.Signal()
		}
	})
	if err != nil {
		b.logger.Warn("create window not queued", "error", err)
		return false
	}

	_ = b.attributes.Release(attributes)
	if semaphore != 0 {
		_ = b.semaphores.Release(semaphore)
	}
	return true
}

// HandleExit asks the loop to stop.
func (b *Bridge) HandleExit(h Handle) bool {
	handle, err := b.handles.Borrow(h)
	if err != nil {
		return false
	}
	return handle.Exit() == nil
}

// PolledEvent is the result of HandlePollEvent. Event is a boxed
// WindowEvent that the caller must release.
type PolledEvent struct {
	OK       bool
	WindowID uint64
	Type     event.Type
	Event    Handle
}

// HandlePollEvent pops the next event. An empty queue is not an error.
func (b *Bridge) HandlePollEvent(h Handle) PolledEvent {
	handle, err := b.handles.Borrow(h)
	if err != nil {
		return PolledEvent{}
	}
	ev, ok := handle.PollEvent()
	if !ok {
		return PolledEvent{}
	}
	return PolledEvent{
		OK:       true,
		WindowID: uint64(ev.WindowID),
		Type:     ev.Event.Type(),
		Event:    b.events.Box(ev),
	}
}

func (b *Bridge) HandleRelease(h Handle) {
	_ = b.handles.Release(h)
}
