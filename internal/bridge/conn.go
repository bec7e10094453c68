package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/PizzaHomicide/reel/internal/log"
	"github.com/PizzaHomicide/reel/internal/player"
	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 10 * time.Second
	eventBuffer  = 256
)

type pending struct {
	op string
	ch chan response
}

// conn is one host page connection.  Requests are matched to results by id, events are routed to native handles.
type conn struct {
	id  string
	ws  *websocket.Conn
	log *log.Logger

	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]pending
	handles map[string]*native

	closed    chan struct{}
	closeOnce sync.Once
}

func newConn(id string, ws *websocket.Conn) *conn {
	return &conn{
		id:      id,
		ws:      ws,
		log:     log.With("page", id),
		pending: make(map[uint64]pending),
		handles: make(map[string]*native),
		closed:  make(chan struct{}),
	}
}

// request sends req and waits for its result
func (c *conn) request(ctx context.Context, req request) (json.RawMessage, error) {
	ch := make(chan response, 1)

	c.mu.Lock()
	select {
	case <-c.closed:
		c.mu.Unlock()
		return nil, ErrDisconnected
	default:
	}
	c.nextID++
	req.ID = c.nextID
	c.pending[req.ID] = pending{op: req.Op, ch: ch}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, req.ID)
		c.mu.Unlock()
	}()

	if err := c.write(req); err != nil {
		return nil, err
	}
	c.log.Trace("Sent request", "id", req.ID, "op", req.Op, "handle", req.Handle, "method", req.Method)

	select {
	case res := <-ch:
		if res.err != nil {
			return nil, res.err
		}
		return res.result, nil
	case <-c.closed:
		return nil, ErrDisconnected
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", req.Op, ctx.Err())
	}
}

func (c *conn) write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		c.close()
		return fmt.Errorf("%w: %v", ErrDisconnected, err)
	}
	return nil
}

// readLoop dispatches page messages until the connection fails, then closes it
func (c *conn) readLoop() {
	defer c.close()
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("Host page connection failed", "error", err)
			} else {
				c.log.Debug("Host page connection closed", "error", err)
			}
			return
		}

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			c.log.Error("Failed to unmarshal page message", "error", err)
			continue
		}
		c.dispatch(msg)
	}
}

func (c *conn) dispatch(msg inbound) {
	switch msg.Type {
	case msgResult:
		c.mu.Lock()
		p, ok := c.pending[msg.ID]
		c.mu.Unlock()
		if !ok {
			c.log.Debug("Dropping result of abandoned request", "id", msg.ID)
			return
		}
		res := response{result: msg.Result}
		if msg.Error != "" {
			res.err = &PageError{Op: p.op, Message: msg.Error}
		}
		p.ch <- res
	case msgEvent:
		c.mu.Lock()
		defer c.mu.Unlock()
		n, ok := c.handles[msg.Handle]
		if !ok {
			c.log.Trace("Dropping event of released handle", "handle", msg.Handle, "event", msg.Name)
			return
		}
		select {
		case n.events <- player.NativeEvent{Name: msg.Name, Data: msg.Data}:
		default:
			c.log.Warn("Native event queue full, dropping event", "handle", msg.Handle, "event", msg.Name)
		}
	case msgHello:
		c.log.Info("Host page connected", "user_agent", msg.UserAgent)
	default:
		c.log.Warn("Unknown page message", "type", msg.Type)
	}
}

// register creates the native handle events are routed to.  It exists before the page constructs the player so no
// early event is lost.
func (c *conn) register(id string) *native {
	n := &native{id: id, conn: c, events: make(chan player.NativeEvent, eventBuffer)}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handles[id] = n
	return n
}

// unregister stops routing events to a handle and closes its event channel
func (c *conn) unregister(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n, ok := c.handles[id]; ok {
		delete(c.handles, id)
		close(n.events)
	}
}

// close fails every pending request and closes every handle's event channel
func (c *conn) close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		close(c.closed)
		for id, n := range c.handles {
			delete(c.handles, id)
			close(n.events)
		}
		c.mu.Unlock()
		_ = c.ws.Close()
	})
}

func (c *conn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}
