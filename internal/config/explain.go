package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given path and its source.
//
// Supported paths include:
//
//	backend
//	display
//	xauthority
//	log_level
//	log_format
//	log_file
//	log_max_size_mb
//	log_max_files
//	scale_factor
//	semaphore_index
//	ipc.enabled
//	ipc.socket_path
//	ipc.timeout_seconds
//	window.<field>
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	switch parts[0] {
	case "ipc":
		if len(parts) != 2 {
			return nil, fmt.Errorf("unsupported path %q (expected ipc.<field>)", path)
		}
		switch parts[1] {
		case "enabled":
			return cfg.IPC.Enabled, nil
		case "socket_path":
			return cfg.IPC.SocketPath, nil
		case "timeout_seconds":
			return cfg.IPC.TimeoutSeconds, nil
		}
		return nil, fmt.Errorf("unknown ipc field %q", parts[1])
	case "window":
		if len(parts) != 2 {
			return nil, fmt.Errorf("unsupported path %q (expected window.<field>)", path)
		}
		w := cfg.Window
		switch parts[1] {
		case "title":
			return w.Title, nil
		case "width":
			return w.Width, nil
		case "height":
			return w.Height, nil
		case "decorations":
			return w.Decorations, nil
		case "resizable":
			return w.Resizable, nil
		case "transparent":
			return w.Transparent, nil
		case "maximized":
			return w.Maximized, nil
		case "visible":
			return w.Visible, nil
		case "always_on_top":
			return w.AlwaysOnTop, nil
		}
		return nil, fmt.Errorf("unknown window field %q", parts[1])
	}

	if len(parts) != 1 {
		return nil, fmt.Errorf("unsupported path %q", path)
	}
	switch path {
	case "backend":
		return cfg.Backend, nil
	case "display":
		return cfg.Display, nil
	case "xauthority":
		return cfg.XAuthority, nil
	case "log_level":
		return cfg.LogLevel, nil
	case "log_format":
		return cfg.LogFormat, nil
	case "log_file":
		return cfg.LogFile, nil
	case "log_max_size_mb":
		return cfg.LogMaxSizeMB, nil
	case "log_max_files":
		return cfg.LogMaxFiles, nil
	case "scale_factor":
		return cfg.ScaleFactor, nil
	case "semaphore_index":
		return cfg.SemaphoreIndex, nil
	}
	return nil, fmt.Errorf("unknown config path %q", path)
}
