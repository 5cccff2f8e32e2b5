// Command libwinbridge builds the bridge as a C shared library:
//
//	go build -buildmode=c-shared -o libwinbridge.so ./cmd/libwinbridge
//
// Every exported function forwards to internal/ffi. Handles are opaque
// 64-bit values; zero is the null handle.
package main

/*
#include <stdbool.h>
#include <stdint.h>
#include <stdlib.h>

typedef void (*wb_wake_fn)(void *ctx);
typedef void (*wb_semaphore_fn)(int32_t index, void *ctx);
typedef void (*wb_resize_fn)(void *ctx, uint32_t width, uint32_t height);
typedef void (*wb_created_fn)(void *ctx, uint64_t window);

typedef struct {
	uint64_t window_id;
	uint32_t type;
	uint64_t event;
} wb_polled_event;

typedef struct {
	int32_t x;
	int32_t y;
	uint32_t width;
	uint32_t height;
	double scale_factor;
	bool primary;
} wb_monitor;

typedef struct {
	uint32_t kind;
	uintptr_t window;
	uint32_t visual;
} wb_raw_window_handle;

typedef struct {
	uint32_t kind;
	uintptr_t display;
	int32_t screen;
} wb_raw_display_handle;

static inline void wb_call_wake(wb_wake_fn fn, uintptr_t ctx) { fn((void *)ctx); }
static inline void wb_call_semaphore(wb_semaphore_fn fn, int32_t index, uintptr_t ctx) { fn(index, (void *)ctx); }
static inline void wb_call_resize(wb_resize_fn fn, uintptr_t ctx, uint32_t w, uint32_t h) { fn((void *)ctx, w, h); }
static inline void wb_call_created(wb_created_fn fn, uintptr_t ctx, uint64_t window) { fn((void *)ctx, window); }
*/
import "C"

import (
	"log/slog"
	"sync"
	"unsafe"

	"github.com/1broseidon/winbridge/internal/backend"
	"github.com/1broseidon/winbridge/internal/config"
	"github.com/1broseidon/winbridge/internal/ffi"
	"github.com/1broseidon/winbridge/internal/logging"
)

func main() {}

var (
	bridgeOnce sync.Once
	bridge     *ffi.Bridge
)

// lib returns the process-wide bridge, configured from the user's config
// file on first use.
func lib() *ffi.Bridge {
	bridgeOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			slog.Warn("libwinbridge: config not loaded, using defaults", "error", err)
			cfg = config.DefaultConfig()
		}
		logger, _, err := logging.New(logging.FromConfig(cfg))
		if err != nil {
			logger = slog.Default()
		}
		logger = logger.With("component", "libwinbridge")

		factory, name, err := backend.Resolve(cfg.Backend, backend.OptionsFromConfig(cfg, logger))
		if err != nil {
			logger.Error("backend unavailable, falling back to headless", "backend", cfg.Backend, "error", err)
			factory, name, _ = backend.Resolve(backend.Headless, backend.OptionsFromConfig(cfg, logger))
		}
		logger.Info("bridge initialised", "backend", name)
		bridge = ffi.New(factory, logger)
	})
	return bridge
}

func h(v C.uint64_t) ffi.Handle { return ffi.Handle(v) }

func wakeFunc(fn C.wb_wake_fn) func(uintptr) {
	return func(ctx uintptr) { C.wb_call_wake(fn, C.uintptr_t(ctx)) }
}

// Builder

//export wb_builder_new
func wb_builder_new() C.uint64_t {
	return C.uint64_t(lib().BuilderNew())
}

//export wb_builder_add_wake_up_signaller
func wb_builder_add_wake_up_signaller(builder C.uint64_t, fn C.wb_wake_fn, ctx unsafe.Pointer) C.bool {
	if fn == nil {
		return false
	}
	return C.bool(lib().BuilderAddWakeUpSignaller(h(builder), wakeFunc(fn), uintptr(ctx)))
}

//export wb_builder_set_semaphore_signaller
func wb_builder_set_semaphore_signaller(builder, semaphore C.uint64_t) C.bool {
	return C.bool(lib().BuilderSetSemaphoreSignaller(h(builder), h(semaphore)))
}

//export wb_builder_build
func wb_builder_build(builder C.uint64_t) C.uint64_t {
	return C.uint64_t(lib().BuilderBuild(h(builder)))
}

//export wb_builder_release
func wb_builder_release(builder C.uint64_t) {
	lib().BuilderRelease(h(builder))
}

// Semaphore signaller

//export wb_semaphore_signaller_new
func wb_semaphore_signaller_new(fn C.wb_semaphore_fn, index C.int32_t, ctx unsafe.Pointer) C.uint64_t {
	if fn == nil {
		return 0
	}
	call := func(index int, ctx uintptr) { C.wb_call_semaphore(fn, C.int32_t(index), C.uintptr_t(ctx)) }
	return C.uint64_t(lib().SemaphoreSignallerNew(call, int(index), uintptr(ctx)))
}

//export wb_semaphore_signaller_release
func wb_semaphore_signaller_release(semaphore C.uint64_t) {
	lib().SemaphoreSignallerRelease(h(semaphore))
}

// Application

//export wb_application_handle
func wb_application_handle(application C.uint64_t) C.uint64_t {
	return C.uint64_t(lib().ApplicationHandle(h(application)))
}

//export wb_application_run
func wb_application_run(application C.uint64_t) C.bool {
	return C.bool(lib().ApplicationRun(h(application)))
}

//export wb_application_release
func wb_application_release(application C.uint64_t) {
	lib().ApplicationRelease(h(application))
}

// Application handle

//export wb_handle_wake_up
func wb_handle_wake_up(handle C.uint64_t) C.bool {
	return C.bool(lib().HandleWakeUp(h(handle)))
}

//export wb_handle_create_window
func wb_handle_create_window(handle, attributes, semaphore C.uint64_t, fn C.wb_created_fn, ctx unsafe.Pointer) C.bool {
	var onCreated ffi.CreatedFunc
	if fn != nil {
		onCreated = func(ctx uintptr, window ffi.Handle) {
			C.wb_call_created(fn, C.uintptr_t(ctx), C.uint64_t(window))
		}
	}
	return C.bool(lib().HandleCreateWindow(h(handle), h(attributes), h(semaphore), onCreated, uintptr(ctx)))
}

//export wb_handle_exit
func wb_handle_exit(handle C.uint64_t) C.bool {
	return C.bool(lib().HandleExit(h(handle)))
}

//export wb_handle_poll_event
func wb_handle_poll_event(handle C.uint64_t, out *C.wb_polled_event) C.bool {
	if out == nil {
		return false
	}
	ev := lib().HandlePollEvent(h(handle))
	if !ev.OK {
		return false
	}
	out.window_id = C.uint64_t(ev.WindowID)
	out._type = C.uint32_t(ev.Type)
	out.event = C.uint64_t(ev.Event)
	return true
}

//export wb_handle_release
func wb_handle_release(handle C.uint64_t) {
	lib().HandleRelease(h(handle))
}

// Window attributes

//export wb_window_attributes_new
func wb_window_attributes_new() C.uint64_t {
	return C.uint64_t(lib().AttributesNew())
}

//export wb_window_attributes_release
func wb_window_attributes_release(attributes C.uint64_t) {
	lib().AttributesRelease(h(attributes))
}

//export wb_window_attributes_with_title
func wb_window_attributes_with_title(attributes C.uint64_t, title *C.char) C.bool {
	if title == nil {
		return false
	}
	return C.bool(lib().AttributesWithTitle(h(attributes), C.GoString(title)))
}

//export wb_window_attributes_with_decorations
func wb_window_attributes_with_decorations(attributes C.uint64_t, v C.bool) C.bool {
	return C.bool(lib().AttributesWithDecorations(h(attributes), bool(v)))
}

//export wb_window_attributes_with_transparency
func wb_window_attributes_with_transparency(attributes C.uint64_t, v C.bool) C.bool {
	return C.bool(lib().AttributesWithTransparency(h(attributes), bool(v)))
}

//export wb_window_attributes_with_resizable
func wb_window_attributes_with_resizable(attributes C.uint64_t, v C.bool) C.bool {
	return C.bool(lib().AttributesWithResizable(h(attributes), bool(v)))
}

//export wb_window_attributes_with_dimensions
func wb_window_attributes_with_dimensions(attributes C.uint64_t, width, height C.double) C.bool {
	return C.bool(lib().AttributesWithDimensions(h(attributes), float64(width), float64(height)))
}

//export wb_window_attributes_with_maximized
func wb_window_attributes_with_maximized(attributes C.uint64_t, v C.bool) C.bool {
	return C.bool(lib().AttributesWithMaximized(h(attributes), bool(v)))
}

//export wb_window_attributes_with_visibility
func wb_window_attributes_with_visibility(attributes C.uint64_t, v C.bool) C.bool {
	return C.bool(lib().AttributesWithVisibility(h(attributes), bool(v)))
}

//export wb_window_attributes_with_always_on_top
func wb_window_attributes_with_always_on_top(attributes C.uint64_t, v C.bool) C.bool {
	return C.bool(lib().AttributesWithAlwaysOnTop(h(attributes), bool(v)))
}

//export wb_window_attributes_with_full_size
func wb_window_attributes_with_full_size(attributes C.uint64_t, v C.bool) C.bool {
	return C.bool(lib().AttributesWithFullSize(h(attributes), bool(v)))
}

// Window handle

//export wb_window_id
func wb_window_id(window C.uint64_t) C.uint64_t {
	return C.uint64_t(lib().WindowID(h(window)))
}

//export wb_window_scale_factor
func wb_window_scale_factor(window C.uint64_t) C.double {
	return C.double(lib().WindowScaleFactor(h(window)))
}

//export wb_window_surface_size
func wb_window_surface_size(window C.uint64_t, width, height *C.uint32_t) {
	size := lib().WindowSurfaceSize(h(window))
	if width != nil {
		*width = C.uint32_t(size.Width)
	}
	if height != nil {
		*height = C.uint32_t(size.Height)
	}
}

//export wb_window_position
func wb_window_position(window C.uint64_t, x, y *C.int32_t) {
	pos := lib().WindowPosition(h(window))
	if x != nil {
		*x = C.int32_t(pos.X)
	}
	if y != nil {
		*y = C.int32_t(pos.Y)
	}
}

//export wb_window_set_outer_position
func wb_window_set_outer_position(window C.uint64_t, x, y C.int32_t) {
	lib().WindowSetOuterPosition(h(window), int32(x), int32(y))
}

//export wb_window_set_cursor_icon
func wb_window_set_cursor_icon(window C.uint64_t, icon C.uint32_t) {
	lib().WindowSetCursorIcon(h(window), uint32(icon))
}

//export wb_window_request_surface_size
func wb_window_request_surface_size(window C.uint64_t, width, height C.uint32_t) C.bool {
	return C.bool(lib().WindowRequestSurfaceSize(h(window), uint32(width), uint32(height)))
}

//export wb_window_request_redraw
func wb_window_request_redraw(window C.uint64_t) {
	lib().WindowRequestRedraw(h(window))
}

//export wb_window_add_redraw_listener
func wb_window_add_redraw_listener(window C.uint64_t, fn C.wb_wake_fn, ctx unsafe.Pointer) C.bool {
	if fn == nil {
		return false
	}
	return C.bool(lib().WindowAddRedrawListener(h(window), wakeFunc(fn), uintptr(ctx)))
}

//export wb_window_add_resize_listener
func wb_window_add_resize_listener(window C.uint64_t, fn C.wb_resize_fn, ctx unsafe.Pointer) C.bool {
	if fn == nil {
		return false
	}
	call := func(ctx uintptr, width, height uint32) {
		C.wb_call_resize(fn, C.uintptr_t(ctx), C.uint32_t(width), C.uint32_t(height))
	}
	return C.bool(lib().WindowAddResizeListener(h(window), call, uintptr(ctx)))
}

//export wb_window_focus
func wb_window_focus(window C.uint64_t) C.bool {
	return C.bool(lib().WindowFocus(h(window)))
}

//export wb_window_current_monitor
func wb_window_current_monitor(window C.uint64_t, out *C.wb_monitor) C.bool {
	if out == nil {
		return false
	}
	mon, ok := lib().WindowCurrentMonitor(h(window))
	if !ok {
		return false
	}
	out.x = C.int32_t(mon.Position.X)
	out.y = C.int32_t(mon.Position.Y)
	out.width = C.uint32_t(mon.Size.Width)
	out.height = C.uint32_t(mon.Size.Height)
	out.scale_factor = C.double(mon.ScaleFactor)
	out.primary = C.bool(mon.Primary)
	return true
}

//export wb_window_raw_window_handle
func wb_window_raw_window_handle(window C.uint64_t, out *C.wb_raw_window_handle) C.bool {
	if out == nil {
		return false
	}
	raw, ok := lib().WindowRawHandle(h(window))
	if !ok {
		return false
	}
	out.kind = C.uint32_t(raw.Kind)
	out.window = C.uintptr_t(raw.Window)
	out.visual = C.uint32_t(raw.Visual)
	return true
}

//export wb_window_raw_display_handle
func wb_window_raw_display_handle(window C.uint64_t, out *C.wb_raw_display_handle) C.bool {
	if out == nil {
		return false
	}
	raw, ok := lib().WindowRawDisplayHandle(h(window))
	if !ok {
		return false
	}
	out.kind = C.uint32_t(raw.Kind)
	out.display = C.uintptr_t(raw.Display)
	out.screen = C.int32_t(raw.Screen)
	return true
}

//export wb_window_close
func wb_window_close(window C.uint64_t) {
	lib().WindowClose(h(window))
}

//export wb_window_release
func wb_window_release(window C.uint64_t) {
	lib().WindowRelease(h(window))
}

// Events

//export wb_window_event_type
func wb_window_event_type(ev C.uint64_t) C.uint32_t {
	return C.uint32_t(lib().EventType(h(ev)))
}

// wb_window_event_payload_json returns the payload as a JSON string that
// the caller frees with wb_string_free. It returns NULL for a bad handle.
//
//export wb_window_event_payload_json
func wb_window_event_payload_json(ev C.uint64_t) *C.char {
	payload := lib().EventPayloadJSON(h(ev))
	if payload == "" {
		return nil
	}
	return C.CString(payload)
}

//export wb_window_event_release
func wb_window_event_release(ev C.uint64_t) {
	lib().EventRelease(h(ev))
}

//export wb_string_free
func wb_string_free(s *C.char) {
	C.free(unsafe.Pointer(s))
}

