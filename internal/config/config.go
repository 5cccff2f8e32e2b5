package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/winbridge/internal/platform"
)

// IPCConfig configures the daemon's control socket.
type IPCConfig struct {
	// Enabled starts the unix socket server alongside the event loop.
	Enabled bool `yaml:"enabled" toml:"enabled"`
	// SocketPath overrides the default $XDG_RUNTIME_DIR/winbridge.sock.
	SocketPath string `yaml:"socket_path,omitempty" toml:"socket_path"`
	// TimeoutSeconds bounds requests that wait on the loop thread.
	TimeoutSeconds int `yaml:"timeout_seconds" toml:"timeout_seconds"`
}

// WindowConfig holds the default attributes for windows created through
// the CLI, IPC or MCP.
type WindowConfig struct {
	Title       string  `yaml:"title" toml:"title"`
	Width       float64 `yaml:"width" toml:"width"`   // logical units
	Height      float64 `yaml:"height" toml:"height"` // logical units
	Decorations bool    `yaml:"decorations" toml:"decorations"`
	Resizable   bool    `yaml:"resizable" toml:"resizable"`
	Transparent bool    `yaml:"transparent" toml:"transparent"`
	Maximized   bool    `yaml:"maximized" toml:"maximized"`
	Visible     bool    `yaml:"visible" toml:"visible"`
	AlwaysOnTop bool    `yaml:"always_on_top" toml:"always_on_top"`
}

// Attributes converts the config to platform window attributes.
func (w WindowConfig) Attributes() platform.WindowAttributes {
	attrs := platform.DefaultWindowAttributes().
		WithTitle(w.Title).
		WithDecorations(w.Decorations).
		WithResizable(w.Resizable).
		WithTransparent(w.Transparent).
		WithMaximized(w.Maximized).
		WithVisible(w.Visible).
		WithAlwaysOnTop(w.AlwaysOnTop)
	if w.Width > 0 && w.Height > 0 {
		attrs = attrs.WithSurfaceSize(platform.LogicalSize{Width: w.Width, Height: w.Height})
	}
	return attrs
}

// Config is the effective winbridge configuration.
type Config struct {
	// Backend selects the native layer: auto, x11 or headless.
	Backend string `yaml:"backend" toml:"backend"`

	// Display and XAuthority override DISPLAY/XAUTHORITY for the X11
	// backend.
	Display    string `yaml:"display,omitempty" toml:"display"`
	XAuthority string `yaml:"xauthority,omitempty" toml:"xauthority"`

	LogLevel     string `yaml:"log_level" toml:"log_level"`
	LogFormat    string `yaml:"log_format" toml:"log_format"`
	LogFile      string `yaml:"log_file,omitempty" toml:"log_file"`
	LogMaxSizeMB int    `yaml:"log_max_size_mb" toml:"log_max_size_mb"`
	LogMaxFiles  int    `yaml:"log_max_files" toml:"log_max_files"`

	// ScaleFactor forces a scale factor; 0 uses what the platform reports.
	ScaleFactor float64 `yaml:"scale_factor" toml:"scale_factor"`

	// SemaphoreIndex is passed to the semaphore signaller installed by the
	// daemon.
	SemaphoreIndex int `yaml:"semaphore_index" toml:"semaphore_index"`

	IPC    IPCConfig    `yaml:"ipc" toml:"ipc"`
	Window WindowConfig `yaml:"window" toml:"window"`
}

const (
	DefaultBackend        = "auto"
	DefaultIPCTimeout     = 5
	DefaultLogMaxSizeMB   = 10
	DefaultLogMaxFiles    = 3
	DefaultWindowTitle    = "winbridge"
	DefaultWindowWidth    = 800
	DefaultWindowHeight   = 600
	maxScaleFactor        = 8
	maxIPCTimeoutSeconds  = 300
	maxLogMaxFiles        = 100
	maxLogMaxSizeMB       = 1024
	maxWindowDimension    = 32768
	maxSemaphoreIndex     = 1 << 16
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Backend:      DefaultBackend,
		LogLevel:     "info",
		LogFormat:    "text",
		LogMaxSizeMB: DefaultLogMaxSizeMB,
		LogMaxFiles:  DefaultLogMaxFiles,
		IPC: IPCConfig{
			Enabled:        true,
			TimeoutSeconds: DefaultIPCTimeout,
		},
		Window: WindowConfig{
			Title:       DefaultWindowTitle,
			Width:       DefaultWindowWidth,
			Height:      DefaultWindowHeight,
			Decorations: true,
			Resizable:   true,
			Visible:     true,
		},
	}
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	switch c.Backend {
	case "auto", "x11", "headless":
	default:
		return &ValidationError{Path: "backend", Err: fmt.Errorf("backend must be one of: auto, x11, headless")}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return &ValidationError{Path: "log_format", Err: fmt.Errorf("log_format must be one of: text, json")}
	}
	if c.LogMaxSizeMB < 1 || c.LogMaxSizeMB > maxLogMaxSizeMB {
		return &ValidationError{Path: "log_max_size_mb", Err: fmt.Errorf("log_max_size_mb must be between 1 and %d", maxLogMaxSizeMB)}
	}
	if c.LogMaxFiles < 0 || c.LogMaxFiles > maxLogMaxFiles {
		return &ValidationError{Path: "log_max_files", Err: fmt.Errorf("log_max_files must be between 0 and %d", maxLogMaxFiles)}
	}
	if c.ScaleFactor < 0 || c.ScaleFactor > maxScaleFactor {
		return &ValidationError{Path: "scale_factor", Err: fmt.Errorf("scale_factor must be 0 (platform) or up to %d", maxScaleFactor)}
	}
	if c.SemaphoreIndex < 0 || c.SemaphoreIndex > maxSemaphoreIndex {
		return &ValidationError{Path: "semaphore_index", Err: fmt.Errorf("semaphore_index must be between 0 and %d", maxSemaphoreIndex)}
	}
	if c.IPC.TimeoutSeconds < 1 || c.IPC.TimeoutSeconds > maxIPCTimeoutSeconds {
		return &ValidationError{Path: "ipc.timeout_seconds", Err: fmt.Errorf("timeout_seconds must be between 1 and %d", maxIPCTimeoutSeconds)}
	}
	if c.Window.Width < 0 || c.Window.Width > maxWindowDimension {
		return &ValidationError{Path: "window.width", Err: fmt.Errorf("width must be between 0 and %d", maxWindowDimension)}
	}
	if c.Window.Height < 0 || c.Window.Height > maxWindowDimension {
		return &ValidationError{Path: "window.height", Err: fmt.Errorf("height must be between 0 and %d", maxWindowDimension)}
	}
	if (c.Window.Width == 0) != (c.Window.Height == 0) {
		return &ValidationError{Path: "window", Err: fmt.Errorf("width and height must both be set or both be 0")}
	}
	return nil
}

// IPCTimeoutSeconds returns the configured timeout or the default.
func (c *Config) IPCTimeoutSeconds() int {
	if c.IPC.TimeoutSeconds <= 0 {
		return DefaultIPCTimeout
	}
	return c.IPC.TimeoutSeconds
}

// Marshal renders the effective config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Save writes the configuration to path, or to the standard location when
// path is empty.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if path == "" {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
