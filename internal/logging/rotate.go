package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// RotatingFile is an append-only log file rotated by size.
//
// Rotation renames app.log -> app.log.1, app.log.1 -> app.log.2 and so on,
// keeping at most MaxFiles rotated files. With MaxFiles=0 the file is
// truncated instead.
type RotatingFile struct {
	mu          sync.Mutex
	path        string
	maxBytes    int64
	maxFiles    int
	file        *os.File
	currentSize int64
}

// OpenRotatingFile opens (or creates) path with 0600 permissions.
func OpenRotatingFile(path string, maxSizeMB, maxFiles int) (*RotatingFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}

	if maxSizeMB < 1 {
		maxSizeMB = 1
	}
	return &RotatingFile{
		path:        path,
		maxBytes:    int64(maxSizeMB) * 1024 * 1024,
		maxFiles:    maxFiles,
		file:        f,
		currentSize: stat.Size(),
	}, nil
}

// Write appends p, rotating first when the file is full.
func (r *RotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return 0, os.ErrClosed
	}
	if r.currentSize > 0 && r.currentSize+int64(len(p)) > r.maxBytes {
		if err := r.rotate(); err != nil {
			// Fall back to stderr until the next rotation succeeds.
			fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
			if r.file == nil {
				return os.Stderr.Write(p)
			}
		}
	}

	n, err := r.file.Write(p)
	r.currentSize += int64(n)
	return n, err
}

// Close closes the file. Later writes fail with os.ErrClosed.
func (r *RotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

func (r *RotatingFile) rotate() error {
	if r.file != nil {
		r.file.Close()
		r.file = nil
	}

	if r.maxFiles <= 0 {
		if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to truncate log file: %w", err)
		}
	} else {
		for i := r.maxFiles; i >= 1; i-- {
			oldPath := fmt.Sprintf("%s.%d", r.path, i)
			if i == r.maxFiles {
				os.Remove(oldPath)
				continue
			}
			os.Rename(oldPath, fmt.Sprintf("%s.%d", r.path, i+1))
		}
		if err := os.Rename(r.path, r.path+".1"); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to rotate log file: %w", err)
		}
	}

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open new log file: %w", err)
	}
	r.file = f
	r.currentSize = 0
	return nil
}
