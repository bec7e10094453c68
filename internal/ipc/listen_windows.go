//go:build windows

package ipc

import (
	"net"

	"gopkg.in/natefinch/npipe.v2"
)

// DefaultSocketPath returns the named pipe clients connect to
func DefaultSocketPath() string {
	return `\\.\pipe\reel`
}

func listen(path string) (net.Listener, error) {
	l, err := npipe.Listen(path)
	if err != nil {
		return nil, err
	}
	return l, nil
}
