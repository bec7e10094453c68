// Package ipc serves a JSON control socket modelled on mpv's JSON IPC.  Every line a client writes is a command:
//
//	{"command": ["set_url", "https://youtu.be/def456"], "request_id": 1}
//
// and is answered by a reply carrying the same request id:
//
//	{"request_id": 1, "error": "success", "data": null}
//
// Player notifications are pushed to every client as event lines:
//
//	{"event": "state", "data": "playing"}
package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/PizzaHomicide/reel/internal/domain"
)

const errSuccess = "success"

type command struct {
	Command   []json.RawMessage `json:"command"`
	RequestID int64             `json:"request_id,omitempty"`
}

type reply struct {
	RequestID int64  `json:"request_id"`
	Error     string `json:"error"`
	Data      any    `json:"data"`
}

type event struct {
	Event domain.NotificationKind `json:"event"`
	Data  any                     `json:"data"`
}

// arg decodes the i-th argument of a command
func arg[T any](args []json.RawMessage, i int) (T, error) {
	var v T
	if i >= len(args) {
		return v, fmt.Errorf("%w: missing argument %d", domain.ErrInvalidArgument, i+1)
	}
	if err := json.Unmarshal(args[i], &v); err != nil {
		return v, fmt.Errorf("%w: argument %d: %v", domain.ErrInvalidArgument, i+1, err)
	}
	return v, nil
}
