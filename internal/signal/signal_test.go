package signal

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWakeUpSignaller_PassesThunk(t *testing.T) {
	var got uintptr
	s := NewWakeUpSignaller(func(thunk uintptr) { got = thunk }, 42)
	s.Signal()
	if got != 42 {
		t.Fatalf("expected thunk 42, got %d", got)
	}
}

func TestSemaphoreSignaller_PassesIndexAndThunk(t *testing.T) {
	var gotIndex int
	var gotThunk uintptr
	s := NewSemaphoreSignaller(func(index int, thunk uintptr) {
		gotIndex = index
		gotThunk = thunk
	}, 3, 7)
	s.Signal()
	if gotIndex != 3 || gotThunk != 7 {
		t.Fatalf("expected (3, 7), got (%d, %d)", gotIndex, gotThunk)
	}
	if s.Index() != 3 {
		t.Fatalf("expected Index 3, got %d", s.Index())
	}
}

func TestZeroSignallersAreNoOps(t *testing.T) {
	WakeUpSignaller{}.Signal()
	SemaphoreSignaller{}.Signal()
	Func(nil).Signal()
}

func TestSignallers_ConcurrentUse(t *testing.T) {
	var count atomic.Int64
	s := NewSemaphoreSignaller(func(int, uintptr) { count.Add(1) }, 0, 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Signal()
			}
		}()
	}
	wg.Wait()

	if got := count.Load(); got != 800 {
		t.Fatalf("expected 800 signals, got %d", got)
	}
}

func TestChan_Coalesces(t *testing.T) {
	c := NewChan()
	c.Signal()
	c.Signal()
	c.Signal()

	select {
	case <-c.C():
	case <-time.After(time.Second):
		t.Fatalf("expected pending signal")
	}

	select {
	case <-c.C():
		t.Fatalf("expected signals to coalesce into one")
	default:
	}
}
