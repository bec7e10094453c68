package bridge

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/PizzaHomicide/reel/internal/player"
)

// native is a handle to a player object the page constructed.  It is bound to the connection it was created on and
// fails with ErrDisconnected once that connection is gone.
type native struct {
	id     string
	conn   *conn
	events chan player.NativeEvent
}

func (n *native) Call(ctx context.Context, method string, args ...any) (json.RawMessage, error) {
	return n.conn.request(ctx, request{Op: opCall, Handle: n.id, Method: method, Args: args})
}

func (n *native) CallWithCallback(ctx context.Context, method string, args ...any) (json.RawMessage, error) {
	return n.conn.request(ctx, request{Op: opCallCallback, Handle: n.id, Method: method, Args: args})
}

func (n *native) Get(ctx context.Context, property string) (json.RawMessage, error) {
	return n.conn.request(ctx, request{Op: opGet, Handle: n.id, Property: property})
}

func (n *native) Set(ctx context.Context, property string, value any) error {
	_, err := n.conn.request(ctx, request{Op: opSet, Handle: n.id, Property: property, Value: value})
	return err
}

func (n *native) Events() <-chan player.NativeEvent {
	return n.events
}

// Release stops event routing first, then asks the page to forget the object.  The page side is best effort: a
// page that is gone has forgotten it already.
func (n *native) Release(ctx context.Context) error {
	n.conn.unregister(n.id)
	_, err := n.conn.request(ctx, request{Op: opRelease, Handle: n.id})
	if errors.Is(err, ErrDisconnected) {
		return nil
	}
	return err
}
