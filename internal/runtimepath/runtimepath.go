package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dir returns the runtime directory used for the IPC socket and pid file.
// Priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) /run/user/<uid> (if present)
// 3) /tmp/winbridge-runtime-<uid> (created)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/winbridge-runtime-%d", uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath returns the daemon IPC socket path.
func SocketPath() (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, "winbridge.sock"), nil
}

// ResolveSocketPath returns override when set, else SocketPath.
func ResolveSocketPath(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	return SocketPath()
}

// PIDPath returns the daemon pid file path.
func PIDPath() (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, "winbridge.pid"), nil
}
