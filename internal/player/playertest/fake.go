// Package playertest provides in-memory stand-ins for the host page: a mount, native player objects and a script
// loader.  They record every interaction so tests can assert on ordering.
package playertest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/PizzaHomicide/reel/internal/player"
	"github.com/PizzaHomicide/reel/internal/sdk"
)

// ErrReleased is returned by calls on a released native
var ErrReleased = errors.New("native handle released")

// readyEvents are emitted right after construction unless the mount holds readiness back.  Vimeo reports ready through
// its ready() promise instead.
var readyEvents = map[string]string{
	"YT.Player": "onReady",
	"DM.player": "apiready",
	"SC.Widget": "READY",
}

// Call is one recorded invocation on a native
type Call struct {
	Method   string
	Args     []any
	Callback bool
}

// Handler answers a native method call
type Handler func(args []any) (any, error)

// Native is a fake native player object
type Native struct {
	Spec player.Construct

	mu       sync.Mutex
	calls    []Call
	handlers map[string]Handler
	props    map[string]any
	events   chan player.NativeEvent
	released bool
	mount    *Mount
}

func newNative(spec player.Construct, mount *Mount) *Native {
	return &Native{
		Spec:     spec,
		handlers: make(map[string]Handler),
		props:    make(map[string]any),
		events:   make(chan player.NativeEvent, 64),
		mount:    mount,
	}
}

// Handle installs the answer for method
func (n *Native) Handle(method string, h Handler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers[method] = h
}

// Return makes method answer with a fixed value
func (n *Native) Return(method string, value any) {
	n.Handle(method, func([]any) (any, error) { return value, nil })
}

func (n *Native) invoke(ctx context.Context, method string, callback bool, args []any) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n.mu.Lock()
	if n.released {
		n.mu.Unlock()
		return nil, ErrReleased
	}
	n.calls = append(n.calls, Call{Method: method, Args: args, Callback: callback})
	h := n.handlers[method]
	n.mu.Unlock()

	n.mount.record(fmt.Sprintf("call:%s.%s", n.Spec.Target, method))
	if h == nil {
		return json.RawMessage("null"), nil
	}
	res, err := h(args)
	if err != nil {
		return nil, err
	}
	return json.Marshal(res)
}

func (n *Native) Call(ctx context.Context, method string, args ...any) (json.RawMessage, error) {
	return n.invoke(ctx, method, false, args)
}

func (n *Native) CallWithCallback(ctx context.Context, method string, args ...any) (json.RawMessage, error) {
	return n.invoke(ctx, method, true, args)
}

func (n *Native) Get(ctx context.Context, property string) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.released {
		return nil, ErrReleased
	}
	v, ok := n.props[property]
	if !ok {
		return json.RawMessage("null"), nil
	}
	return json.Marshal(v)
}

func (n *Native) Set(ctx context.Context, property string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.released {
		return ErrReleased
	}
	n.props[property] = value
	n.calls = append(n.calls, Call{Method: "set:" + property, Args: []any{value}})
	return nil
}

// Prop returns a property previously assigned through Set or SetProp
func (n *Native) Prop(property string) any {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.props[property]
}

// SetProp seeds a property as the SDK would
func (n *Native) SetProp(property string, value any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.props[property] = value
}

func (n *Native) Events() <-chan player.NativeEvent {
	return n.events
}

// Emit delivers a native event.  Events emitted after Release are dropped.
func (n *Native) Emit(name string, data any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.released {
		return
	}
	var raw json.RawMessage
	if data != nil {
		raw, _ = json.Marshal(data)
	}
	n.events <- player.NativeEvent{Name: name, Data: raw}
}

func (n *Native) Release(context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.released {
		n.released = true
		close(n.events)
		n.mount.record("release:" + n.Spec.Target)
	}
	return nil
}

func (n *Native) Released() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.released
}

// Calls returns a copy of every recorded call
func (n *Native) Calls() []Call {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Call(nil), n.calls...)
}

// CallsTo returns the recorded calls of one method
func (n *Native) CallsTo(method string) []Call {
	var out []Call
	for _, c := range n.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (n *Native) Called(method string) bool {
	return len(n.CallsTo(method)) > 0
}

// Mount is a fake host page container
type Mount struct {
	// HoldReady suppresses the automatic ready event after construction
	HoldReady bool
	// ConstructErr makes every construction fail
	ConstructErr error
	// OnConstruct runs before the automatic ready event, e.g. to install handlers
	OnConstruct func(n *Native)

	mu         sync.Mutex
	html       string
	attributes map[string]map[string]string
	journal    []string
	natives    []*Native
}

func NewMount() *Mount {
	return &Mount{attributes: make(map[string]map[string]string)}
}

func (m *Mount) record(entry string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.journal = append(m.journal, entry)
}

func (m *Mount) SetHTML(ctx context.Context, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.html = html
	m.attributes = make(map[string]map[string]string)
	m.journal = append(m.journal, "html")
	return nil
}

func (m *Mount) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.html = ""
	m.attributes = make(map[string]map[string]string)
	m.journal = append(m.journal, "clear")
	return nil
}

func (m *Mount) SetAttribute(ctx context.Context, selector, name, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.attributes[selector] == nil {
		m.attributes[selector] = make(map[string]string)
	}
	m.attributes[selector][name] = value
	return nil
}

func (m *Mount) Construct(ctx context.Context, spec player.Construct) (player.Native, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.ConstructErr != nil {
		return nil, m.ConstructErr
	}
	n := newNative(spec, m)
	m.mu.Lock()
	m.natives = append(m.natives, n)
	m.journal = append(m.journal, "construct:"+spec.Constructor)
	hold := m.HoldReady
	onConstruct := m.OnConstruct
	m.mu.Unlock()

	if onConstruct != nil {
		onConstruct(n)
	}
	if name, ok := readyEvents[spec.Constructor]; ok && !hold {
		n.Emit(name, nil)
	}
	return n, nil
}

func (m *Mount) HTML() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.html
}

// Attribute returns an attribute set through SetAttribute
func (m *Mount) Attribute(selector, name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attributes[selector][name]
}

// Journal returns the ordered record of mount operations and native calls
func (m *Mount) Journal() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.journal...)
}

// Natives returns every native constructed so far, oldest first
func (m *Mount) Natives() []*Native {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Native(nil), m.natives...)
}

// Last returns the most recently constructed native, or nil
func (m *Mount) Last() *Native {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.natives) == 0 {
		return nil
	}
	return m.natives[len(m.natives)-1]
}

// Live counts the natives that were not released yet
func (m *Mount) Live() int {
	count := 0
	for _, n := range m.Natives() {
		if !n.Released() {
			count++
		}
	}
	return count
}

// Scripts is a fake script loader
type Scripts struct {
	// Block, when set, holds every load until it is closed
	Block chan struct{}
	Err   error

	mu     sync.Mutex
	loaded []string
}

func (s *Scripts) LoadScript(ctx context.Context, script sdk.Script) error {
	if s.Block != nil {
		select {
		case <-s.Block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = append(s.loaded, script.URL)
	return nil
}

// Loaded lists the script URLs loaded so far
func (s *Scripts) Loaded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.loaded...)
}
