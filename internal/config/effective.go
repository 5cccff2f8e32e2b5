package config

import "fmt"

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" {
		return fmt.Sprintf("%s: %s: %v", e.Source.File, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// BuildEffectiveConfig applies raw on top of the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	setIf(&cfg.Backend, raw.Backend)
	setIf(&cfg.Display, raw.Display)
	setIf(&cfg.XAuthority, raw.XAuthority)
	setIf(&cfg.LogLevel, raw.LogLevel)
	setIf(&cfg.LogFormat, raw.LogFormat)
	setIf(&cfg.LogFile, raw.LogFile)
	setIf(&cfg.LogMaxSizeMB, raw.LogMaxSizeMB)
	setIf(&cfg.LogMaxFiles, raw.LogMaxFiles)
	setIf(&cfg.ScaleFactor, raw.ScaleFactor)
	setIf(&cfg.SemaphoreIndex, raw.SemaphoreIndex)

	if raw.IPC != nil {
		setIf(&cfg.IPC.Enabled, raw.IPC.Enabled)
		setIf(&cfg.IPC.SocketPath, raw.IPC.SocketPath)
		setIf(&cfg.IPC.TimeoutSeconds, raw.IPC.TimeoutSeconds)
	}

	if w := raw.Window; w != nil {
		setIf(&cfg.Window.Title, w.Title)
		setIf(&cfg.Window.Width, w.Width)
		setIf(&cfg.Window.Height, w.Height)
		setIf(&cfg.Window.Decorations, w.Decorations)
		setIf(&cfg.Window.Resizable, w.Resizable)
		setIf(&cfg.Window.Transparent, w.Transparent)
		setIf(&cfg.Window.Maximized, w.Maximized)
		setIf(&cfg.Window.Visible, w.Visible)
		setIf(&cfg.Window.AlwaysOnTop, w.AlwaysOnTop)
	}

	// "warning" is accepted as an alias.
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	return cfg
}
