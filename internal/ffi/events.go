package ffi

import (
	"encoding/json"

	"github.com/1broseidon/winbridge/internal/event"
)

func (b *Bridge) EventType(h Handle) event.Type {
	ev, err := b.events.Borrow(h)
	if err != nil || ev.Event == nil {
		return event.TypeUnknown
	}
	return ev.Event.Type()
}

// EventPayloadJSON returns the event as JSON, or "" for an invalid handle.
func (b *Bridge) EventPayloadJSON(h Handle) string {
	ev, err := b.events.Borrow(h)
	if err != nil {
		return ""
	}
	data, err := json.Marshal(ev)
	if err != nil {
		b.logger.Error("encode event failed", "error", err)
		return ""
	}
	return string(data)
}

// EventPayload returns the typed event.
func (b *Bridge) EventPayload(h Handle) (event.Event, bool) {
	ev, err := b.events.Borrow(h)
	if err != nil {
		return nil, false
	}
	return ev.Event, true
}

func (b *Bridge) EventRelease(h Handle) {
	_ = b.events.Release(h)
}
