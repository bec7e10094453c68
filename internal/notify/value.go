// Package notify holds the small signalling primitives shared by the player adapters, the session controller and the
// host-facing transports.
package notify

import "sync"

// Value remembers the last published value of one channel and only publishes again when the value changes
type Value[T comparable] struct {
	mu        sync.Mutex
	current   T
	published bool
	// held records values without emitting them until Release or Resume
	held bool
	emit func(T)
}

// NewValue creates a value that calls emit for every change
func NewValue[T comparable](emit func(T)) *Value[T] {
	return &Value[T]{emit: emit}
}

// NewHeldValue creates a value that records changes but emits nothing until Release or Resume
func NewHeldValue[T comparable](emit func(T)) *Value[T] {
	return &Value[T]{emit: emit, held: true}
}

// Set publishes v unless it equals the last published value.  Returns true if v was published.  A held value only
// records v and returns false.
func (v *Value[T]) Set(value T) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.published && v.current == value {
		return false
	}
	v.current = value
	v.published = true
	if v.held || v.emit == nil {
		return false
	}
	v.emit(value)
	return true
}

// Release stops holding and emits the value recorded so far.  With nothing recorded the fallback, if given, is
// recorded and emitted instead.  Both happen under one lock, so a concurrent Set is either replayed here or compared
// against the replayed value afterwards.
func (v *Value[T]) Release(fallback ...T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.held {
		return
	}
	v.held = false
	if !v.published && len(fallback) > 0 {
		v.current = fallback[0]
		v.published = true
	}
	if v.published && v.emit != nil {
		v.emit(v.current)
	}
}

// Resume stops holding without replaying what was recorded
func (v *Value[T]) Resume() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.held = false
}

// Force publishes v even if it equals the last published value
func (v *Value[T]) Force(value T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.current = value
	v.published = true
	if !v.held && v.emit != nil {
		v.emit(value)
	}
}

// Seed records v as published without emitting it
func (v *Value[T]) Seed(value T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = value
	v.published = true
}

// Get returns the last published value and whether anything was published yet
func (v *Value[T]) Get() (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current, v.published
}
