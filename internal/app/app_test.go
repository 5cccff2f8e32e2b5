package app

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/1broseidon/winbridge/internal/event"
	"github.com/1broseidon/winbridge/internal/platform"
	"github.com/1broseidon/winbridge/internal/platform/headless"
	"github.com/1broseidon/winbridge/internal/signal"
)

type harness struct {
	t      *testing.T
	loop   *headless.Loop
	app    *Application
	handle *Handle
	done   chan error
}

type counter struct{ n atomic.Int64 }

func (c *counter) Signal() { c.n.Add(1) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHarness(t *testing.T, configure func(*Builder), opts ...headless.Option) *harness {
	t.Helper()
	loop := headless.New(opts...)
	b := NewBuilder(func() (platform.EventLoop, error) { return loop, nil }).WithLogger(discardLogger())
	if configure != nil {
		configure(b)
	}
	a, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return &harness{t: t, loop: loop, app: a, handle: a.Handle()}
}

func (h *harness) start() {
	h.done = make(chan error, 1)
	go func() { h.done <- h.app.Run() }()
	h.t.Cleanup(h.stop)
}

func (h *harness) stop() {
	if h.done == nil {
		return
	}
	_ = h.handle.Exit()
	select {
	case err := <-h.done:
		if err != nil {
			h.t.Errorf("Run() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		h.t.Error("application did not stop")
	}
	h.done = nil
}

// settle returns once everything injected or sent before the call has been
// dispatched.
func (h *harness) settle() {
	h.t.Helper()
	for i := 0; i < 2; i++ {
		done := make(chan struct{})
		if err := h.handle.Call(func() { close(done) }); err != nil {
			h.t.Fatalf("Call() error: %v", err)
		}
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			h.t.Fatal("loop did not drain")
		}
	}
}

func (h *harness) createWindow(attrs platform.WindowAttributes) *Window {
	h.t.Helper()
	created := make(chan *Window, 1)
	if err := h.handle.CreateWindow(attrs, func(w *Window) { created <- w }); err != nil {
		h.t.Fatalf("CreateWindow() error: %v", err)
	}
	select {
	case w := <-created:
		return w
	case <-time.After(5 * time.Second):
		h.t.Fatal("window was not created")
		return nil
	}
}

func TestActionsRunInEnqueueOrder(t *testing.T) {
	h := newHarness(t, nil)
	h.start()

	const producers, perProducer = 8, 200
	var (
		sendMu  sync.Mutex
		next    int
		seen    []int
		wg      sync.WaitGroup
		allDone = make(chan struct{})
	)

	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				sendMu.Lock()
				marker := next
				next++
				err := h.handle.Call(func() {
					seen = append(seen, marker)
					if len(seen) == producers*perProducer {
						close(allDone)
					}
				})
				sendMu.Unlock()
				if err != nil {
					t.Errorf("Call() error: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	select {
	case <-allDone:
	case <-time.After(10 * time.Second):
		t.Fatal("not every call ran")
	}
	h.stop()

	for i, m := range seen {
		if m != i {
			t.Fatalf("action %d ran with marker %d; order not preserved", i, m)
		}
	}
}

func TestCreateWindowCompletesOnLoopThread(t *testing.T) {
	h := newHarness(t, nil)
	h.start()

	var calls atomic.Int32
	type result struct {
		w        *Window
		tid      int
		onThread bool
	}
	got := make(chan result, 2)
	err := h.handle.CreateWindow(platform.DefaultWindowAttributes().WithTitle("first"), func(w *Window) {
		calls.Add(1)
		got <- result{w: w, tid: currentThreadID(), onThread: h.handle.OnLoopThread()}
	})
	if err != nil {
		t.Fatalf("CreateWindow() error: %v", err)
	}

	var r result
	select {
	case r = <-got:
	case <-time.After(5 * time.Second):
		t.Fatal("completion not called")
	}
	h.settle()

	if calls.Load() != 1 {
		t.Fatalf("completion called %d times, want 1", calls.Load())
	}
	if r.tid != h.handle.LoopThread() || !r.onThread {
		t.Fatalf("completion ran on thread %d, loop thread is %d", r.tid, h.handle.LoopThread())
	}
	native, ok := h.loop.Window(r.w.ID())
	if !ok {
		t.Fatalf("window id %d does not match a native window", r.w.ID())
	}
	if native.Attributes().Title != "first" {
		t.Fatalf("native title = %q", native.Attributes().Title)
	}
	if reg, ok := h.handle.Window(r.w.ID()); !ok || reg != r.w {
		t.Fatal("window not registered before completion")
	}
}

func TestConcurrentCreatesYieldUniqueWindows(t *testing.T) {
	h := newHarness(t, nil)
	h.start()

	const producers, perProducer = 5, 10
	var created sync.WaitGroup
	created.Add(producers * perProducer)

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				attrs := platform.DefaultWindowAttributes().
					WithSurfaceSize(platform.LogicalSize{Width: float64(100 + p), Height: float64(100 + i)})
				if err := h.handle.CreateWindow(attrs, func(*Window) { created.Done() }); err != nil {
					t.Errorf("CreateWindow() error: %v", err)
					created.Done()
				}
			}
		}(p)
	}
	wg.Wait()

	waitCh := make(chan struct{})
	go func() { created.Wait(); close(waitCh) }()
	select {
	case <-waitCh:
	case <-time.After(10 * time.Second):
		t.Fatal("not every window was created")
	}

	windows := h.handle.Windows()
	if len(windows) != producers*perProducer {
		t.Fatalf("registered %d windows, want %d", len(windows), producers*perProducer)
	}
	ids := make(map[platform.WindowID]bool)
	for _, w := range windows {
		if ids[w.ID()] {
			t.Fatalf("duplicate window id %d", w.ID())
		}
		ids[w.ID()] = true
	}
	if s := h.handle.Stats(); s.WindowsCreated != producers*perProducer {
		t.Fatalf("Stats().WindowsCreated = %d", s.WindowsCreated)
	}
}

func TestGeometryCachedAfterClose(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	w := h.createWindow(platform.DefaultWindowAttributes())

	h.loop.Inject(w.ID(), platform.SurfaceResized{Size: platform.PhysicalSize{Width: 1024, Height: 768}})
	h.loop.Inject(w.ID(), platform.Moved{Position: platform.PhysicalPosition{X: 30, Y: 40}})
	h.settle()

	w.Close()
	h.settle()

	if !w.IsClosed() {
		t.Fatal("window not closed")
	}
	if got := w.SurfaceSize(); got != (platform.PhysicalSize{Width: 1024, Height: 768}) {
		t.Fatalf("SurfaceSize() after close = %+v", got)
	}
	if got := w.OuterPosition(); got != (platform.PhysicalPosition{X: 30, Y: 40}) {
		t.Fatalf("OuterPosition() after close = %+v", got)
	}
	if w.ScaleFactor() != 1 {
		t.Fatalf("ScaleFactor() after close = %v", w.ScaleFactor())
	}
	if err := w.Focus(); !errors.Is(err, ErrWindowClosed) {
		t.Fatalf("Focus() error = %v, want ErrWindowClosed", err)
	}
	if _, err := w.CurrentMonitor(); !errors.Is(err, ErrWindowClosed) {
		t.Fatalf("CurrentMonitor() error = %v, want ErrWindowClosed", err)
	}
	if _, err := w.RawWindowHandle(); !errors.Is(err, ErrWindowClosed) {
		t.Fatalf("RawWindowHandle() error = %v, want ErrWindowClosed", err)
	}
	w.SetCursor(platform.CursorText)
	w.SetOuterPosition(platform.PhysicalPosition{X: 1, Y: 1})
	w.RequestRedraw()
	if got := w.OuterPosition(); got != (platform.PhysicalPosition{X: 30, Y: 40}) {
		t.Fatalf("closed window moved to %+v", got)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	w := h.createWindow(platform.DefaultWindowAttributes())
	native, _ := h.loop.Window(w.ID())

	clone := w
	w.Close()
	clone.Close()
	h.settle()

	if !native.Destroyed() {
		t.Fatal("native window not destroyed")
	}
	if h.loop.Windows() != 0 {
		t.Fatalf("headless loop still has %d windows", h.loop.Windows())
	}
	if _, ok := h.handle.Window(w.ID()); !ok {
		t.Fatal("closed window removed from registry")
	}
	if s := h.handle.Stats(); s.Windows != 1 || s.OpenWindows != 0 {
		t.Fatalf("Stats() = %+v, want one closed window", s)
	}
}

func TestZeroResizeSuppressed(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	w := h.createWindow(platform.DefaultWindowAttributes())
	initial := w.SurfaceSize()

	var sizes []platform.PhysicalSize
	w.AddResizeListener(ResizeFunc(func(s platform.PhysicalSize) { sizes = append(sizes, s) }))

	h.loop.Inject(w.ID(), platform.SurfaceResized{})
	h.settle()

	if w.SurfaceSize() != initial {
		t.Fatalf("0x0 resize changed cache to %+v", w.SurfaceSize())
	}
	if len(sizes) != 0 {
		t.Fatalf("0x0 resize fired listeners: %v", sizes)
	}
	if _, ok := h.handle.PollEvent(); ok {
		t.Fatal("0x0 resize published an event")
	}

	h.loop.Inject(w.ID(), platform.SurfaceResized{Size: platform.PhysicalSize{Width: 800, Height: 600}})
	h.settle()

	ev, ok := h.handle.PollEvent()
	if !ok {
		t.Fatal("resize not published")
	}
	if ev.WindowID != w.ID() || ev.Event != (event.Resized{Width: 800, Height: 600}) {
		t.Fatalf("event = %+v", ev)
	}
	if len(sizes) != 1 || sizes[0] != (platform.PhysicalSize{Width: 800, Height: 600}) {
		t.Fatalf("listener sizes = %v", sizes)
	}
	if w.SurfaceSize() != (platform.PhysicalSize{Width: 800, Height: 600}) {
		t.Fatalf("cached size = %+v", w.SurfaceSize())
	}
}

func TestListenersObserveUpdatedCache(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	w := h.createWindow(platform.DefaultWindowAttributes())

	var observed platform.PhysicalSize
	w.AddResizeListener(ResizeFunc(func(platform.PhysicalSize) { observed = w.SurfaceSize() }))

	h.loop.Inject(w.ID(), platform.SurfaceResized{Size: platform.PhysicalSize{Width: 640, Height: 480}})
	h.settle()

	if observed != (platform.PhysicalSize{Width: 640, Height: 480}) {
		t.Fatalf("listener saw cache %+v", observed)
	}
}

func TestSemaphoreSignalledOncePerNativeEvent(t *testing.T) {
	sem := &counter{}
	h := newHarness(t, func(b *Builder) { b.SetSemaphoreSignaller(sem) })
	h.start()
	w := h.createWindow(platform.DefaultWindowAttributes())

	h.loop.Inject(w.ID(), platform.KeyboardInput{Event: platform.KeyEvent{
		KeyWithoutModifiers:  platform.CharacterKey("q"),
		TextWithAllModifiers: "q",
		State:                platform.Pressed,
	}})
	h.loop.Inject(w.ID(), platform.PointerEntered{})
	h.loop.Inject(w.ID()+100, platform.CloseRequested{})
	h.settle()

	if got := h.handle.DrainEvents(0); len(got) != 2 {
		t.Fatalf("published %d events, want keyboard input and text", len(got))
	}
	if sem.n.Load() != 1 {
		t.Fatalf("semaphore signalled %d times, want 1", sem.n.Load())
	}
}

func TestWakeUpSignallersFireAfterDrain(t *testing.T) {
	first, second := &counter{}, &counter{}
	h := newHarness(t, func(b *Builder) {
		b.AddWakeUpSignaller(first).AddWakeUpSignaller(second)
	})
	h.start()

	h.handle.WakeUp()
	h.settle()

	if first.n.Load() == 0 || second.n.Load() == 0 {
		t.Fatalf("wake-up signallers fired %d/%d times", first.n.Load(), second.n.Load())
	}
	if first.n.Load() != second.n.Load() {
		t.Fatalf("signallers fired unevenly: %d vs %d", first.n.Load(), second.n.Load())
	}
}

func TestWakeUpSignallerFiredOncePerBatch(t *testing.T) {
	ch := signal.NewChan()
	var fired atomic.Int32
	h := newHarness(t, func(b *Builder) {
		b.AddWakeUpSignaller(signal.Func(func() { fired.Add(1); ch.Signal() }))
	})

	for i := 0; i < 10; i++ {
		if err := h.handle.Call(func() {}); err != nil {
			t.Fatalf("Call() error: %v", err)
		}
	}
	h.start()

	select {
	case <-ch.C():
	case <-time.After(5 * time.Second):
		t.Fatal("wake-up signaller not fired")
	}
	h.stop()

	if s := h.handle.Stats(); s.ActionsHandled < 10 {
		t.Fatalf("ActionsHandled = %d, want >= 10", s.ActionsHandled)
	}
	// Ten coalesced wake-ups, one batch, plus the Exit batch at most.
	if n := fired.Load(); n < 1 || n > 2 {
		t.Fatalf("wake-up signaller fired %d times", n)
	}
}

func TestCreateWindowFailureIsDropped(t *testing.T) {
	h := newHarness(t, nil)
	h.loop.FailNextCreate(1)
	h.start()

	called := false
	if err := h.handle.CreateWindow(platform.DefaultWindowAttributes(), func(*Window) { called = true }); err != nil {
		t.Fatalf("CreateWindow() error: %v", err)
	}
	h.settle()

	if called {
		t.Fatal("completion called for failed creation")
	}
	if s := h.handle.Stats(); s.CreateFailures != 1 || s.Windows != 0 {
		t.Fatalf("Stats() = %+v", s)
	}

	h.createWindow(platform.DefaultWindowAttributes())
	if s := h.handle.Stats(); s.Windows != 1 {
		t.Fatalf("Windows = %d after retry", s.Windows)
	}
}

func TestRequestSurfaceSize(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	w := h.createWindow(platform.DefaultWindowAttributes())

	if err := w.RequestSurfaceSize(platform.PhysicalSize{Width: 300, Height: 200}); err != nil {
		t.Fatalf("RequestSurfaceSize() error: %v", err)
	}
	if err := h.handle.RequestSurfaceSize(w.ID()+42, platform.PhysicalSize{Width: 1, Height: 1}); err != nil {
		t.Fatalf("RequestSurfaceSize(unknown) error: %v", err)
	}
	h.settle()
	h.settle()

	if w.SurfaceSize() != (platform.PhysicalSize{Width: 300, Height: 200}) {
		t.Fatalf("SurfaceSize() = %+v", w.SurfaceSize())
	}
	if s := h.handle.Stats(); s.ResizesDropped != 1 {
		t.Fatalf("ResizesDropped = %d, want 1", s.ResizesDropped)
	}

	w.Close()
	h.settle()
	if err := w.RequestSurfaceSize(platform.PhysicalSize{Width: 10, Height: 10}); err != nil {
		t.Fatalf("RequestSurfaceSize() on closed window error: %v", err)
	}
	h.settle()
	if s := h.handle.Stats(); s.ResizesDropped != 2 {
		t.Fatalf("ResizesDropped = %d, want 2", s.ResizesDropped)
	}
}

func TestScaleFactorChangeKeepsLogicalSize(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	w := h.createWindow(platform.DefaultWindowAttributes().WithSurfaceSize(platform.LogicalSize{Width: 400, Height: 300}))
	native, _ := h.loop.Window(w.ID())

	native.SetScaleFactor(2)
	h.settle()
	h.settle()

	events := h.handle.DrainEvents(0)
	if len(events) < 1 {
		t.Fatal("no events published")
	}
	want := event.ScaleFactorChanged{ScaleFactor: 2, Width: 800, Height: 600}
	if events[0].Event != want {
		t.Fatalf("first event = %+v, want %+v", events[0].Event, want)
	}
	if w.ScaleFactor() != 2 {
		t.Fatalf("cached scale = %v", w.ScaleFactor())
	}
	if w.SurfaceSize() != (platform.PhysicalSize{Width: 800, Height: 600}) {
		t.Fatalf("cached size = %+v", w.SurfaceSize())
	}
}

func TestRedrawListenersFireWithoutEvent(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	w := h.createWindow(platform.DefaultWindowAttributes())

	var order []string
	w.AddRedrawListener(signal.Func(func() { order = append(order, "a") }))
	w.AddRedrawListener(signal.Func(func() { order = append(order, "b") }))

	h.loop.Inject(w.ID(), platform.RedrawRequested{})
	h.loop.Inject(w.ID(), platform.RedrawRequested{})
	h.settle()

	if len(order) != 4 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("listener order = %v", order)
	}
	if h.handle.events.Len() != 0 {
		t.Fatal("redraw published an event")
	}
}

func TestPlatformDestroyDetachesWindow(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	w := h.createWindow(platform.DefaultWindowAttributes())

	h.loop.Inject(w.ID(), platform.Destroyed{})
	h.settle()

	if !w.IsClosed() {
		t.Fatal("window still open after Destroyed")
	}
	w.Close()
}

func TestListenerPanicIsRecovered(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	w := h.createWindow(platform.DefaultWindowAttributes())
	w.AddRedrawListener(signal.Func(func() { panic("boom") }))

	h.loop.Inject(w.ID(), platform.RedrawRequested{})
	h.settle()

	if s := h.handle.Stats(); s.PanicsRecovered != 1 || s.State != "running" {
		t.Fatalf("Stats() = %+v", s)
	}
}

func TestLifecycle(t *testing.T) {
	h := newHarness(t, nil)
	if h.app.State() != StateIdle {
		t.Fatalf("State() = %v, want idle", h.app.State())
	}
	h.start()
	h.settle()
	if h.app.State() != StateRunning {
		t.Fatalf("State() = %v, want running", h.app.State())
	}
	if err := h.app.Run(); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second Run() error = %v, want ErrAlreadyRunning", err)
	}

	h.stop()
	if h.app.State() != StateTerminated {
		t.Fatalf("State() = %v, want terminated", h.app.State())
	}
	if err := h.handle.Call(func() {}); !errors.Is(err, ErrApplicationStopped) {
		t.Fatalf("Call() after exit error = %v, want ErrApplicationStopped", err)
	}
}

func TestBuildPropagatesLoopError(t *testing.T) {
	boom := errors.New("no display")
	_, err := NewBuilder(func() (platform.EventLoop, error) { return nil, boom }).Build()
	if !errors.Is(err, boom) {
		t.Fatalf("Build() error = %v, want wrapped %v", err, boom)
	}
}

func TestActionsPendingAtPlatformShutdownAreDropped(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	w := h.createWindow(platform.DefaultWindowAttributes())

	var ran atomic.Bool
	var sendErr error
	w.AddRedrawListener(signal.Func(func() {
		h.loop.Quit()
		sendErr = h.handle.Call(func() { ran.Store(true) })
	}))
	h.loop.Inject(w.ID(), platform.RedrawRequested{})

	select {
	case err := <-h.done:
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop")
	}
	h.done = nil

	if sendErr != nil {
		t.Fatalf("Call() before shutdown error: %v", sendErr)
	}
	if ran.Load() {
		t.Fatal("action ran after the loop stopped")
	}
	s := h.handle.Stats()
	if s.ActionsDropped != 1 || s.PendingActions != 0 || s.State != "terminated" {
		t.Fatalf("Stats() = %+v", s)
	}
	if err := h.handle.Call(func() {}); !errors.Is(err, ErrApplicationStopped) {
		t.Fatalf("Call() after shutdown error = %v, want ErrApplicationStopped", err)
	}
}

type failingWriter struct{ calls atomic.Int32 }

func (w *failingWriter) RequestSurfaceSize(platform.PhysicalSize) error {
	w.calls.Add(1)
	return errors.New("resize refused")
}

func TestScaleFactorResizeFailureIsCounted(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	w := h.createWindow(platform.DefaultWindowAttributes().WithSurfaceSize(platform.LogicalSize{Width: 400, Height: 300}))

	h.settle()
	h.handle.DrainEvents(0)

	writer := &failingWriter{}
	h.loop.Inject(w.ID(), platform.ScaleFactorChanged{ScaleFactor: 2, Writer: writer})
	h.settle()

	if writer.calls.Load() != 1 {
		t.Fatalf("writer called %d times, want 1", writer.calls.Load())
	}
	if s := h.handle.Stats(); s.ResizesDropped != 1 {
		t.Fatalf("ResizesDropped = %d, want 1", s.ResizesDropped)
	}
	if w.ScaleFactor() != 2 {
		t.Fatalf("cached scale = %v, want 2", w.ScaleFactor())
	}
	events := h.handle.DrainEvents(0)
	want := event.ScaleFactorChanged{ScaleFactor: 2, Width: 800, Height: 600}
	if len(events) != 1 || events[0].Event != want {
		t.Fatalf("events = %+v, want one %+v", events, want)
	}
}
