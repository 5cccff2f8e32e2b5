package ffi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/1broseidon/winbridge/internal/event"
	"github.com/1broseidon/winbridge/internal/platform"
	"github.com/1broseidon/winbridge/internal/platform/headless"
)

func newBridge(loop *headless.Loop) *Bridge {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(func() (platform.EventLoop, error) { return loop, nil }, logger)
}

func TestInvalidHandlesReturnZeroValues(t *testing.T) {
	b := newBridge(headless.New())

	if b.BuilderBuild(0) != 0 {
		t.Fatal("BuilderBuild(0) returned a handle")
	}
	if b.HandleWakeUp(42) {
		t.Fatal("HandleWakeUp on stale handle succeeded")
	}
	if got := b.HandlePollEvent(0); got.OK {
		t.Fatal("HandlePollEvent(0) reported an event")
	}
	if b.WindowID(7) != 0 || b.WindowScaleFactor(7) != 0 {
		t.Fatal("window getters on stale handle returned data")
	}
	if b.WindowSurfaceSize(7) != (platform.PhysicalSize{}) {
		t.Fatal("WindowSurfaceSize on stale handle returned data")
	}
	if b.AttributesWithTitle(0, "x") {
		t.Fatal("AttributesWithTitle on null handle succeeded")
	}
	if b.EventPayloadJSON(3) != "" || b.EventType(3) != event.TypeUnknown {
		t.Fatal("event accessors on stale handle returned data")
	}
	b.WindowClose(9)
	b.WindowRelease(9)
	b.EventRelease(9)

	attrs := b.AttributesNew()
	b.AttributesRelease(attrs)
	b.AttributesRelease(attrs)
}

func TestRoundTripThroughHandles(t *testing.T) {
	loop := headless.New()
	b := newBridge(loop)

	var wakes, semSignals atomic.Int32
	builder := b.BuilderNew()
	if !b.BuilderAddWakeUpSignaller(builder, func(uintptr) { wakes.Add(1) }, 0) {
		t.Fatal("BuilderAddWakeUpSignaller failed")
	}
	sem := b.SemaphoreSignallerNew(func(index int, thunk uintptr) {
		if index == 3 && thunk == 0xbeef {
			semSignals.Add(1)
		}
	}, 3, 0xbeef)
	if !b.BuilderSetSemaphoreSignaller(builder, sem) {
		t.Fatal("BuilderSetSemaphoreSignaller failed")
	}

	application := b.BuilderBuild(builder)
	if application == 0 {
		t.Fatal("BuilderBuild failed")
	}
	handle := b.ApplicationHandle(application)

	done := make(chan bool, 1)
	go func() { done <- b.ApplicationRun(application) }()

	attrs := b.AttributesNew()
	b.AttributesWithTitle(attrs, "ffi")
	b.AttributesWithDimensions(attrs, 320, 240)
	b.AttributesWithDecorations(attrs, false)

	var createdSignals atomic.Int32
	createSem := b.SemaphoreSignallerNew(func(int, uintptr) { createdSignals.Add(1) }, 0, 0)
	created := make(chan Handle, 1)
	if !b.HandleCreateWindow(handle, attrs, createSem, func(thunk uintptr, w Handle) {
		if thunk == 7 {
			created <- w
		}
	}, 7) {
		t.Fatal("HandleCreateWindow failed")
	}

	var window Handle
	select {
	case window = <-created:
	case <-time.After(5 * time.Second):
		t.Fatal("window not created")
	}

	if got := b.WindowSurfaceSize(window); got != (platform.PhysicalSize{Width: 320, Height: 240}) {
		t.Fatalf("WindowSurfaceSize = %+v", got)
	}
	native, ok := loop.Window(platform.WindowID(b.WindowID(window)))
	if !ok || native.Attributes().Title != "ffi" || native.Attributes().Decorations {
		t.Fatal("attributes not applied to native window")
	}

	var resized atomic.Value
	b.WindowAddResizeListener(window, func(_ uintptr, w, h uint32) {
		resized.Store(platform.PhysicalSize{Width: w, Height: h})
	}, 0)
	b.WindowRequestSurfaceSize(window, 500, 400)

	deadline := time.Now().Add(5 * time.Second)
	var polled PolledEvent
	for time.Now().Before(deadline) {
		polled = b.HandlePollEvent(handle)
		if polled.OK {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if !polled.OK {
		t.Fatal("no event polled")
	}
	if polled.Type != event.TypeResized || b.EventType(polled.Event) != event.TypeResized {
		t.Fatalf("polled type = %v", polled.Type)
	}
	var rec event.Record
	if err := json.Unmarshal([]byte(b.EventPayloadJSON(polled.Event)), &rec); err != nil {
		t.Fatalf("payload JSON: %v", err)
	}
	if rec.WindowID != b.WindowID(window) || rec.Type != "Resized" {
		t.Fatalf("record = %+v", rec)
	}
	b.EventRelease(polled.Event)

	if got, _ := resized.Load().(platform.PhysicalSize); got != (platform.PhysicalSize{Width: 500, Height: 400}) {
		t.Fatalf("resize listener saw %+v", got)
	}
	if semSignals.Load() < 1 {
		t.Fatal("application semaphore not signalled")
	}
	if createdSignals.Load() != 1 {
		t.Fatalf("creation semaphore signalled %d times", createdSignals.Load())
	}

	b.WindowClose(window)
	b.WindowClose(window)
	if b.WindowFocus(window) {
		t.Fatal("WindowFocus on closed window succeeded")
	}
	if _, ok := b.WindowRawHandle(window); ok {
		t.Fatal("WindowRawHandle on closed window succeeded")
	}
	if b.WindowSurfaceSize(window) != (platform.PhysicalSize{Width: 500, Height: 400}) {
		t.Fatal("cached size lost after close")
	}

	if !b.HandleExit(handle) {
		t.Fatal("HandleExit failed")
	}
	select {
	case ok := <-done:
		if !ok {
			t.Fatal("ApplicationRun reported failure")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("application did not exit")
	}
	if wakes.Load() == 0 {
		t.Fatal("wake-up signaller never fired")
	}

	b.WindowRelease(window)
	b.HandleRelease(handle)
	for name, n := range b.Live() {
		if n != 0 {
			t.Errorf("%s arena still holds %d values", name, n)
		}
	}
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestOffThreadWindowOperationIsLogged(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("thread ids are only tracked on linux")
	}

	var logs lockedBuffer
	loop := headless.New()
	b := New(func() (platform.EventLoop, error) { return loop, nil },
		slog.New(slog.NewTextHandler(&logs, nil)))

	application := b.BuilderBuild(b.BuilderNew())
	if application == 0 {
		t.Fatal("BuilderBuild failed")
	}
	handle := b.ApplicationHandle(application)
	done := make(chan bool, 1)
	go func() { done <- b.ApplicationRun(application) }()

	created := make(chan Handle, 1)
	if !b.HandleCreateWindow(handle, b.AttributesNew(), 0, func(_ uintptr, w Handle) { created <- w }, 0) {
		t.Fatal("HandleCreateWindow failed")
	}
	var window Handle
	select {
	case window = <-created:
	case <-time.After(5 * time.Second):
		t.Fatal("window not created")
	}

	b.WindowSetCursorIcon(window, 1)
	if !strings.Contains(logs.String(), "loop-thread-only window operation") {
		t.Fatalf("off-thread call not logged; logs:\n%s", logs.String())
	}

	b.HandleExit(handle)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("application did not exit")
	}
}

func TestFailedCreateWindowKeepsArguments(t *testing.T) {
	b := newBridge(headless.New())

	application := b.BuilderBuild(b.BuilderNew())
	if application == 0 {
		t.Fatal("BuilderBuild failed")
	}
	handle := b.ApplicationHandle(application)
	done := make(chan bool, 1)
	go func() { done <- b.ApplicationRun(application) }()

	attrs := b.AttributesNew()
	sem := b.SemaphoreSignallerNew(func(int, uintptr) {}, 0, 0)

	if b.HandleCreateWindow(handle, attrs, 999, nil, 0) {
		t.Fatal("HandleCreateWindow with stale semaphore succeeded")
	}
	if !b.AttributesWithTitle(attrs, "retry") {
		t.Fatal("attributes consumed by call with stale semaphore")
	}

	if !b.HandleExit(handle) {
		t.Fatal("HandleExit failed")
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("application did not exit")
	}

	if b.HandleCreateWindow(handle, attrs, sem, nil, 0) {
		t.Fatal("HandleCreateWindow on stopped application succeeded")
	}
	live := b.Live()
	if live["window_attributes"] != 1 || live["semaphore_signaller"] != 1 {
		t.Fatalf("arguments consumed by call on stopped application: %v", live)
	}
	if !b.AttributesWithTitle(attrs, "retry") {
		t.Fatal("attributes handle no longer valid")
	}

	b.AttributesRelease(attrs)
	b.SemaphoreSignallerRelease(sem)
	b.HandleRelease(handle)
}
