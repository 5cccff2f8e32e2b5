// Package daemon hosts the bridge as a long-running process: it owns the
// event loop on the main thread and exposes the application handle over
// IPC.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	ossignal "os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/1broseidon/winbridge/internal/app"
	"github.com/1broseidon/winbridge/internal/backend"
	"github.com/1broseidon/winbridge/internal/config"
	"github.com/1broseidon/winbridge/internal/ipc"
	"github.com/1broseidon/winbridge/internal/platform"
	"github.com/1broseidon/winbridge/internal/runtimepath"
	"github.com/1broseidon/winbridge/internal/signal"
)

// Options configures Run.
type Options struct {
	Config *config.Config
	// ConfigPath is reloaded on SIGHUP. Empty uses the default path.
	ConfigPath string
	Logger     *slog.Logger

	// Factory replaces backend resolution from Config.Backend.
	Factory     platform.Factory
	BackendName string

	// Signals replaces the process signal subscription.
	Signals <-chan os.Signal
	// Ready, when set, is called once the IPC server is listening.
	Ready func(handle *app.Handle)

	ReconcileInterval time.Duration
	MaxPendingEvents  int
}

// Run builds the application, serves IPC and runs the event loop until ctx
// is cancelled, a termination signal arrives or a client requests exit.
// It must be called from the main goroutine; the loop locks its OS thread.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	factory, backendName := opts.Factory, opts.BackendName
	if factory == nil {
		var err error
		factory, backendName, err = backend.Resolve(cfg.Backend, backend.OptionsFromConfig(cfg, logger))
		if err != nil {
			return err
		}
	}
	if backendName == "" {
		backendName = "custom"
	}

	pidPath, err := runtimepath.PIDPath()
	if err != nil {
		return fmt.Errorf("resolve pid path: %w", err)
	}
	if err := writePIDFile(pidPath); err != nil {
		return err
	}
	defer removePIDFile(pidPath)

	published := signal.NewChan()
	var drains atomic.Uint64
	application, err := app.NewBuilder(factory).
		WithLogger(logger).
		AddWakeUpSignaller(signal.Func(func() { drains.Add(1) })).
		SetSemaphoreSignaller(signal.NewSemaphoreSignaller(func(int, uintptr) { published.Signal() }, cfg.SemaphoreIndex, 0)).
		Build()
	if err != nil {
		return err
	}
	handle := application.Handle()

	var server *ipc.Server
	if cfg.IPC.Enabled {
		server, err = ipc.NewServer(handle, ipc.ServerOptions{
			SocketPath: cfg.IPC.SocketPath,
			Backend:    backendName,
			Defaults:   cfg.Window.Attributes(),
			Timeout:    time.Duration(cfg.IPCTimeoutSeconds()) * time.Second,
			Logger:     logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create IPC server: %w", err)
		}
		if err := server.Start(); err != nil {
			return fmt.Errorf("failed to start IPC server: %w", err)
		}
		defer server.Stop()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reconciler := NewReconciler(ReconcilerConfig{
		Interval:         opts.ReconcileInterval,
		MaxPendingEvents: opts.MaxPendingEvents,
		Logger:           logger,
	}, handle, published.C())
	go reconciler.Run(ctx)

	sigCh := opts.Signals
	if sigCh == nil {
		ch := make(chan os.Signal, 1)
		ossignal.Notify(ch, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
		defer ossignal.Stop(ch)
		sigCh = ch
	}
	go watchSignals(ctx, sigCh, application, server, opts.ConfigPath, logger)

	if opts.Ready != nil {
		opts.Ready(handle)
	}

	logger.Info("entering event loop", "backend", backendName, "pid", os.Getpid())
	err = application.Run()
	logger.Info("event loop exited",
		"wake_ups", drains.Load(),
		"events_dropped", reconciler.Dropped())
	if err != nil {
		return fmt.Errorf("event loop: %w", err)
	}
	return nil
}

// watchSignals turns cancellation and termination signals into an Exit
// action, and SIGHUP into a config reload.
func watchSignals(ctx context.Context, sigCh <-chan os.Signal, application *app.Application, server *ipc.Server, configPath string, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			requestExit(application, logger)
			return
		case sig, ok := <-sigCh:
			if !ok {
				sigCh = nil
				continue
			}
			switch sig {
			case syscall.SIGHUP:
				reload(server, configPath, logger)
			default:
				logger.Info("shutting down", "signal", sig.String())
				requestExit(application, logger)
				return
			}
		}
	}
}

func requestExit(application *app.Application, logger *slog.Logger) {
	if application.State() == app.StateTerminated {
		return
	}
	if err := application.Handle().Exit(); err != nil {
		logger.Debug("exit request ignored", "error", err)
	}
}

func reload(server *ipc.Server, configPath string, logger *slog.Logger) {
	logger.Info("received SIGHUP, reloading config")

	var (
		res *config.LoadResult
		err error
	)
	if configPath == "" {
		res, err = config.LoadWithSources()
	} else {
		res, err = config.LoadFromPath(configPath)
	}
	if err != nil {
		logger.Warn("config reload failed", "error", err)
		return
	}

	if server != nil {
		server.UpdateDefaults(res.Config.Window.Attributes())
	}
	logger.Info("config reloaded", "files", len(res.Files))
}
