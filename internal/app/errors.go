package app

import "errors"

var (
	// ErrApplicationStopped is returned when sending to an application
	// whose loop has exited or is exiting.
	ErrApplicationStopped = errors.New("application stopped")
	// ErrAlreadyRunning is returned by a second call to Application.Run.
	ErrAlreadyRunning = errors.New("application already running or finished")
	// ErrWindowClosed is returned by window operations that need the
	// native window after Close.
	ErrWindowClosed = errors.New("window closed")
	// ErrNoMonitor is returned when the platform cannot place a window on
	// a monitor.
	ErrNoMonitor = errors.New("no current monitor")
)
