package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every NotFoundError
	ErrNotFound = errors.New("no player found for url")
	// ErrUnsupported is matched by every UnsupportedError
	ErrUnsupported = errors.New("operation not supported on this platform")
	// ErrNoMount is returned when an adapter is created without a mount point
	ErrNoMount = errors.New("player options require a mount element")
	// ErrNoPlayer is returned by host commands that need a live adapter while the session has none
	ErrNoPlayer = errors.New("no player is ready")
	// ErrUnregistered means a platform id reached the registry without an adapter.  This is a programming error.
	ErrUnregistered = errors.New("platform is not registered")
	// ErrReadyTimeout is published when a native player never reports ready
	ErrReadyTimeout = errors.New("timed out waiting for player to become ready")
	// ErrInvalidArgument wraps host input outside the accepted range
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrClosed is returned once the session controller was closed
	ErrClosed = errors.New("session closed")
)

// NotFoundError reports that no platform pattern matched a URL
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no player found for url %q", e.URL)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// UnsupportedError reports a capability-gated operation the platform categorically cannot perform
type UnsupportedError struct {
	Platform  PlatformID
	Operation string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s is not supported on %s", e.Operation, e.Platform)
}

func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}
