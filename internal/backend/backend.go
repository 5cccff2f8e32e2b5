// Package backend chooses a native event loop by name.
package backend

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/1broseidon/winbridge/internal/config"
	"github.com/1broseidon/winbridge/internal/platform"
	"github.com/1broseidon/winbridge/internal/platform/headless"
	"github.com/1broseidon/winbridge/internal/x11"
)

// Backend names accepted by Resolve.
const (
	Auto     = "auto"
	X11      = "x11"
	Headless = "headless"
)

// Options carries the settings a native layer is built with.
type Options struct {
	Display     string
	XAuthority  string
	ScaleFactor float64
	Logger      *slog.Logger
}

// OptionsFromConfig extracts backend options from cfg.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	return Options{
		Display:     cfg.Display,
		XAuthority:  cfg.XAuthority,
		ScaleFactor: cfg.ScaleFactor,
		Logger:      logger,
	}
}

// Resolve returns a factory for the named backend and the concrete name it
// resolved to. "auto" picks x11 when a display is configured or $DISPLAY is
// set, and headless otherwise.
func Resolve(name string, opts Options) (platform.Factory, string, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	resolved := strings.ToLower(strings.TrimSpace(name))
	if resolved == "" || resolved == Auto {
		resolved = Headless
		if opts.Display != "" || os.Getenv("DISPLAY") != "" {
			resolved = X11
		}
	}

	switch resolved {
	case X11:
		return func() (platform.EventLoop, error) {
			if opts.XAuthority != "" {
				if err := os.Setenv("XAUTHORITY", opts.XAuthority); err != nil {
					return nil, fmt.Errorf("set XAUTHORITY: %w", err)
				}
			}
			return x11.New(x11.Options{
				Display:     opts.Display,
				ScaleFactor: opts.ScaleFactor,
				Logger:      opts.Logger,
			})
		}, X11, nil

	case Headless:
		return func() (platform.EventLoop, error) {
			var hopts []headless.Option
			if opts.ScaleFactor > 0 {
				hopts = append(hopts, headless.WithScaleFactor(opts.ScaleFactor))
			}
			return headless.New(hopts...), nil
		}, Headless, nil

	default:
		return nil, "", fmt.Errorf("%w: %q (want %s, %s or %s)", platform.ErrUnknownBackend, name, Auto, X11, Headless)
	}
}
