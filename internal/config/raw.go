package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// UnmarshalTOML accepts a string or an array of strings.
func (l *IncludeList) UnmarshalTOML(value any) error {
	switch v := value.(type) {
	case string:
		*l = []string{v}
		return nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, s)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawIPCConfig struct {
	Enabled        *bool   `yaml:"enabled" toml:"enabled"`
	SocketPath     *string `yaml:"socket_path" toml:"socket_path"`
	TimeoutSeconds *int    `yaml:"timeout_seconds" toml:"timeout_seconds"`
}

type RawWindowConfig struct {
	Title       *string  `yaml:"title" toml:"title"`
	Width       *float64 `yaml:"width" toml:"width"`
	Height      *float64 `yaml:"height" toml:"height"`
	Decorations *bool    `yaml:"decorations" toml:"decorations"`
	Resizable   *bool    `yaml:"resizable" toml:"resizable"`
	Transparent *bool    `yaml:"transparent" toml:"transparent"`
	Maximized   *bool    `yaml:"maximized" toml:"maximized"`
	Visible     *bool    `yaml:"visible" toml:"visible"`
	AlwaysOnTop *bool    `yaml:"always_on_top" toml:"always_on_top"`
}

// RawConfig is one file's contents. Nil fields were not set and leave the
// value from earlier files (or the defaults) in place.
type RawConfig struct {
	Include IncludeList `yaml:"include" toml:"include"`

	Backend        *string  `yaml:"backend" toml:"backend"`
	Display        *string  `yaml:"display" toml:"display"`
	XAuthority     *string  `yaml:"xauthority" toml:"xauthority"`
	LogLevel       *string  `yaml:"log_level" toml:"log_level"`
	LogFormat      *string  `yaml:"log_format" toml:"log_format"`
	LogFile        *string  `yaml:"log_file" toml:"log_file"`
	LogMaxSizeMB   *int     `yaml:"log_max_size_mb" toml:"log_max_size_mb"`
	LogMaxFiles    *int     `yaml:"log_max_files" toml:"log_max_files"`
	ScaleFactor    *float64 `yaml:"scale_factor" toml:"scale_factor"`
	SemaphoreIndex *int     `yaml:"semaphore_index" toml:"semaphore_index"`

	IPC    *RawIPCConfig    `yaml:"ipc" toml:"ipc"`
	Window *RawWindowConfig `yaml:"window" toml:"window"`
}

func pick[T any](base, override *T) *T {
	if override != nil {
		return override
	}
	return base
}

// merge overlays o on r.
func (r RawConfig) merge(o RawConfig) RawConfig {
	out := r
	out.Include = nil
	out.Backend = pick(r.Backend, o.Backend)
	out.Display = pick(r.Display, o.Display)
	out.XAuthority = pick(r.XAuthority, o.XAuthority)
	out.LogLevel = pick(r.LogLevel, o.LogLevel)
	out.LogFormat = pick(r.LogFormat, o.LogFormat)
	out.LogFile = pick(r.LogFile, o.LogFile)
	out.LogMaxSizeMB = pick(r.LogMaxSizeMB, o.LogMaxSizeMB)
	out.LogMaxFiles = pick(r.LogMaxFiles, o.LogMaxFiles)
	out.ScaleFactor = pick(r.ScaleFactor, o.ScaleFactor)
	out.SemaphoreIndex = pick(r.SemaphoreIndex, o.SemaphoreIndex)

	if o.IPC != nil {
		base := RawIPCConfig{}
		if r.IPC != nil {
			base = *r.IPC
		}
		base.Enabled = pick(base.Enabled, o.IPC.Enabled)
		base.SocketPath = pick(base.SocketPath, o.IPC.SocketPath)
		base.TimeoutSeconds = pick(base.TimeoutSeconds, o.IPC.TimeoutSeconds)
		out.IPC = &base
	}

	if o.Window != nil {
		base := RawWindowConfig{}
		if r.Window != nil {
			base = *r.Window
		}
		base.Title = pick(base.Title, o.Window.Title)
		base.Width = pick(base.Width, o.Window.Width)
		base.Height = pick(base.Height, o.Window.Height)
		base.Decorations = pick(base.Decorations, o.Window.Decorations)
		base.Resizable = pick(base.Resizable, o.Window.Resizable)
		base.Transparent = pick(base.Transparent, o.Window.Transparent)
		base.Maximized = pick(base.Maximized, o.Window.Maximized)
		base.Visible = pick(base.Visible, o.Window.Visible)
		base.AlwaysOnTop = pick(base.AlwaysOnTop, o.Window.AlwaysOnTop)
		out.Window = &base
	}
	return out
}
