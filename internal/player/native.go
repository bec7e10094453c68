package player

import (
	"context"
	"encoding/json"
	"fmt"
)

// NativeEvent is one event forwarded from a native SDK player object
type NativeEvent struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Native is a handle to one embed SDK player object living in the host page
type Native interface {
	// Call invokes a method on the native object.  A returned promise is awaited.
	Call(ctx context.Context, method string, args ...any) (json.RawMessage, error)
	// CallWithCallback invokes a method that reports its result through a trailing callback argument
	CallWithCallback(ctx context.Context, method string, args ...any) (json.RawMessage, error)
	// Get reads a property of the native object.  Dotted paths are allowed.
	Get(ctx context.Context, property string) (json.RawMessage, error)
	// Set assigns a property of the native object
	Set(ctx context.Context, property string, value any) error
	// Events delivers the native events requested at construction.  Closed on Release.
	Events() <-chan NativeEvent
	// Release forgets the handle on the host page side.  It does not destroy the native object.
	Release(ctx context.Context) error
}

// Binding tells the host page how an SDK wants its event listeners attached
type Binding string

const (
	// BindOptions passes listeners as an events map inside the constructor options (YT.Player, DM.player)
	BindOptions Binding = "options"
	// BindOn calls player.on(name, listener) (Vimeo.Player)
	BindOn Binding = "on"
	// BindWidget calls widget.bind(SC.Widget.Events[name], listener) (SC.Widget)
	BindWidget Binding = "bind"
)

// Construct describes how the host page instantiates a native player object
type Construct struct {
	// Constructor is the dotted global path of the factory, e.g. "YT.Player"
	Constructor string `json:"constructor"`
	// New invokes the constructor with the new operator
	New bool `json:"new"`
	// Target is the DOM id of the element the SDK attaches to
	Target string `json:"target"`
	// TargetElement passes the element itself rather than its id
	TargetElement bool `json:"target_element"`
	// Options is the constructor options object, if the SDK takes one
	Options any `json:"options,omitempty"`
	// Binding selects how listeners for Events are attached
	Binding Binding `json:"binding"`
	// Events lists the native event names to forward
	Events []string `json:"events"`
}

// Mount is the single container the session controller owns in the host page.  Adapters only write into it through
// this handle and never keep it past Destroy.
type Mount interface {
	SetHTML(ctx context.Context, html string) error
	Clear(ctx context.Context) error
	// SetAttribute sets an attribute on the first element matching selector inside the container
	SetAttribute(ctx context.Context, selector, name, value string) error
	Construct(ctx context.Context, c Construct) (Native, error)
}

// Decode unmarshals the raw result of a native call.  It is shaped so a Native call can be passed to it directly:
//
//	seconds, err := player.Decode[float64](native.Call(ctx, "getCurrentTime"))
func Decode[T any](raw json.RawMessage, err error) (T, error) {
	var v T
	if err != nil {
		return v, err
	}
	if len(raw) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode native result %s: %w", string(raw), err)
	}
	return v, nil
}

// Discard drops the result of a native call and keeps its error
func Discard(_ json.RawMessage, err error) error {
	return err
}
