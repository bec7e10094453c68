//go:build !windows

package ipc

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"runtime"
)

// DefaultSocketPath returns the per-user socket location for the current OS
func DefaultSocketPath() string {
	if runtime.GOOS == "darwin" {
		if dir, err := os.UserCacheDir(); err == nil {
			return filepath.Join(dir, "reel", "reel.sock")
		}
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "reel.sock")
	}
	return filepath.Join(os.TempDir(), "reel.sock")
}

func listen(path string) (net.Listener, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}
	// A socket left behind by a previous run would make the bind fail
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	l, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(path, 0600); err != nil {
		_ = l.Close()
		return nil, err
	}
	return l, nil
}
