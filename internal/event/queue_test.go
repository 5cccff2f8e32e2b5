package event

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/1broseidon/winbridge/internal/platform"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue()
	q.Push(1, Resized{Width: 1, Height: 1}, Focused{Focused: true})
	q.Push(2, CloseRequested{})
	q.Push(3)

	if q.Len() != 3 || q.Total() != 3 {
		t.Fatalf("Len() = %d Total() = %d, want 3/3", q.Len(), q.Total())
	}

	want := []platform.WindowID{1, 1, 2}
	for i, id := range want {
		ev, ok := q.Poll()
		if !ok {
			t.Fatalf("Poll() #%d empty", i)
		}
		if ev.WindowID != id {
			t.Fatalf("Poll() #%d window = %d, want %d", i, ev.WindowID, id)
		}
	}
	if _, ok := q.Poll(); ok {
		t.Fatal("Poll() on empty queue reported an event")
	}
}

func TestQueueDrain(t *testing.T) {
	q := NewQueue()
	for i := 0; i < 10; i++ {
		q.Push(platform.WindowID(i), Moved{X: int32(i)})
	}
	first := q.Drain(4)
	if len(first) != 4 || first[3].Event.(Moved).X != 3 {
		t.Fatalf("Drain(4) = %v", first)
	}
	rest := q.Drain(0)
	if len(rest) != 6 || q.Len() != 0 {
		t.Fatalf("Drain(0) returned %d, %d left", len(rest), q.Len())
	}
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := NewQueue()
	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func(id platform.WindowID) {
			defer wg.Done()
			for i := 0; i < 250; i++ {
				q.Push(id, Moved{X: int32(i)})
			}
		}(platform.WindowID(p))
	}
	wg.Wait()

	last := map[platform.WindowID]int32{}
	for {
		ev, ok := q.Poll()
		if !ok {
			break
		}
		x := ev.Event.(Moved).X
		if prev, seen := last[ev.WindowID]; seen && x != prev+1 {
			t.Fatalf("window %d out of order: %d after %d", ev.WindowID, x, prev)
		}
		last[ev.WindowID] = x
	}
	if q.Total() != 1000 {
		t.Fatalf("Total() = %d, want 1000", q.Total())
	}
}

func TestWindowEventJSON(t *testing.T) {
	data, err := json.Marshal(WindowEvent{WindowID: 9, Event: MouseWheel{Delta: ScrollDelta{Kind: ScrollPixel, X: -1, Y: 2}}})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if rec.WindowID != 9 || rec.Type != "MouseWheel" || rec.Tag != uint32(TypeMouseWheel) {
		t.Fatalf("unexpected record: %+v", rec)
	}
	var payload struct {
		Delta struct {
			Kind string  `json:"kind"`
			X    float64 `json:"x"`
		} `json:"delta"`
	}
	if err := json.Unmarshal(rec.Payload, &payload); err != nil {
		t.Fatalf("payload decode: %v", err)
	}
	if payload.Delta.Kind != "pixel" || payload.Delta.X != -1 {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestTypeString(t *testing.T) {
	if TypeReceivedText.String() != "ReceivedText" {
		t.Fatalf("String() = %q", TypeReceivedText.String())
	}
	if Type(99).String() != "Type(99)" {
		t.Fatalf("String() = %q", Type(99).String())
	}
}
