// Package boxes keeps values behind stable numeric handles for callers that
// cannot hold Go pointers. A handle is never reused, so a released handle
// stays invalid for the lifetime of the arena.
package boxes

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Handle identifies a boxed value. Zero is the null handle.
type Handle uint64

var (
	ErrNullHandle  = errors.New("null handle")
	ErrStaleHandle = errors.New("stale or released handle")
)

// Arena is a thread-safe table of boxed values of type T.
type Arena[T any] struct {
	name   string
	mu     sync.Mutex
	next   Handle
	slots  map[Handle]T
	logger *slog.Logger
}

// NewArena returns an empty arena. name appears in failure logs.
func NewArena[T any](name string, logger *slog.Logger) *Arena[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Arena[T]{
		name:   name,
		slots:  make(map[Handle]T),
		logger: logger,
	}
}

// Box stores v and returns its new handle.
func (a *Arena[T]) Box(v T) Handle {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next++
	a.slots[a.next] = v
	return a.next
}

// Borrow returns the value behind h without releasing it.
func (a *Arena[T]) Borrow(h Handle) (T, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lookup(h, "borrow")
}

// Replace swaps the value behind h.
func (a *Arena[T]) Replace(h Handle, v T) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, err := a.lookup(h, "replace"); err != nil {
		return err
	}
	a.slots[h] = v
	return nil
}

// Update applies fn to the value behind h and stores the result.
func (a *Arena[T]) Update(h Handle, fn func(T) T) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, err := a.lookup(h, "update")
	if err != nil {
		return err
	}
	a.slots[h] = fn(v)
	return nil
}

// Take removes and returns the value behind h.
func (a *Arena[T]) Take(h Handle) (T, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, err := a.lookup(h, "take")
	if err != nil {
		return v, err
	}
	delete(a.slots, h)
	return v, nil
}

// Release drops the value behind h. Releasing twice fails and is logged.
func (a *Arena[T]) Release(h Handle) error {
	_, err := a.Take(h)
	return err
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.slots)
}

func (a *Arena[T]) lookup(h Handle, op string) (T, error) {
	var zero T
	if h == 0 {
		a.logger.Error("boxed value access failed", "arena", a.name, "op", op, "error", ErrNullHandle)
		return zero, fmt.Errorf("%s %s: %w", op, a.name, ErrNullHandle)
	}
	v, ok := a.slots[h]
	if !ok {
		a.logger.Error("boxed value access failed", "arena", a.name, "op", op, "handle", uint64(h), "error", ErrStaleHandle)
		return zero, fmt.Errorf("%s %s %d: %w", op, a.name, uint64(h), ErrStaleHandle)
	}
	return v, nil
}
