package bridge

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/PizzaHomicide/reel/internal/player"
	"github.com/PizzaHomicide/reel/internal/sdk"
)

// Operations understood by the host page
const (
	opSetHTML      = "set_html"
	opClear        = "clear"
	opSetAttribute = "set_attribute"
	opLoadScript   = "load_script"
	opConstruct    = "construct"
	opCall         = "call"
	opCallCallback = "call_callback"
	opGet          = "get"
	opSet          = "set"
	opRelease      = "release"
)

// Message types sent by the host page
const (
	msgHello  = "hello"
	msgResult = "result"
	msgEvent  = "event"
)

var (
	// ErrDisconnected is returned for requests on a page connection that went away
	ErrDisconnected = errors.New("host page disconnected")
	// ErrClosed is returned once the hub was closed
	ErrClosed = errors.New("bridge closed")
)

// PageError is an exception raised in the host page while serving a request
type PageError struct {
	Op      string
	Message string
}

func (e *PageError) Error() string {
	return fmt.Sprintf("host page failed %s: %s", e.Op, e.Message)
}

// request is one operation sent to the page.  Unused fields are omitted.
type request struct {
	ID        uint64            `json:"id"`
	Op        string            `json:"op"`
	Handle    string            `json:"handle,omitempty"`
	Method    string            `json:"method,omitempty"`
	Property  string            `json:"property,omitempty"`
	Args      []any             `json:"args,omitempty"`
	Value     any               `json:"value,omitempty"`
	HTML      string            `json:"html,omitempty"`
	Selector  string            `json:"selector,omitempty"`
	Name      string            `json:"name,omitempty"`
	Script    *sdk.Script       `json:"script,omitempty"`
	Construct *player.Construct `json:"construct,omitempty"`
}

// inbound is any message sent by the page
type inbound struct {
	Type string `json:"type"`

	// result
	ID     uint64          `json:"id,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`

	// event
	Handle string          `json:"handle,omitempty"`
	Name   string          `json:"name,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`

	// hello
	UserAgent string `json:"user_agent,omitempty"`
}

type response struct {
	result json.RawMessage
	err    error
}
