// Package bridge drives the host page over a websocket.  The page mounts html, loads SDK scripts, constructs native
// player objects, invokes them and forwards their events.  The Hub implements player.Mount and sdk.ScriptLoader, and
// the handles it constructs implement player.Native.
package bridge

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/PizzaHomicide/reel/internal/log"
	"github.com/PizzaHomicide/reel/internal/notify"
	"github.com/PizzaHomicide/reel/internal/player"
	"github.com/PizzaHomicide/reel/internal/sdk"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Hub holds the connection of the single host page.  A newly connecting page replaces the current one.
type Hub struct {
	upgrader websocket.Upgrader

	mu        sync.Mutex
	conn      *conn
	seen      bool
	closed    bool
	connected *notify.Latch
	onReplace func()
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The page is served by the same process, but may be opened through any local hostname
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		connected: notify.NewLatch(),
	}
}

// OnPageReplaced registers fn to run whenever a page connects after an earlier page.  The new page has no scripts
// and no players, so whoever owns them must start over.
func (h *Hub) OnPageReplaced(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onReplace = fn
}

// ServeHTTP upgrades a page connection and serves it until it closes
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("Failed to upgrade host page connection", "error", err)
		return
	}

	c := newConn(uuid.NewString(), ws)
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = ws.Close()
		return
	}
	old, replaced, hook := h.conn, h.seen, h.onReplace
	h.conn = c
	h.seen = true
	h.connected.Set()
	h.mu.Unlock()

	log.Info("Host page attached", "page", c.id, "remote", r.RemoteAddr, "replaces_page", replaced)
	if old != nil {
		old.close()
	}
	if replaced && hook != nil {
		go hook()
	}

	c.readLoop()

	h.mu.Lock()
	h.detach(c)
	h.mu.Unlock()
	log.Info("Host page detached", "page", c.id)
}

// Connected reports whether a page is attached
func (h *Hub) Connected() bool {
	return h.connected.IsSet()
}

// current returns the attached page, waiting for one to attach
func (h *Hub) current(ctx context.Context) (*conn, error) {
	for {
		h.mu.Lock()
		if h.closed {
			h.mu.Unlock()
			return nil, ErrClosed
		}
		c := h.conn
		if c != nil && !c.isClosed() {
			h.mu.Unlock()
			return c, nil
		}
		if c != nil {
			// The page is gone but its read loop has not finished yet.  Detach now so the wait below blocks until
			// another page attaches.
			h.detach(c)
		}
		attached := h.connected.Done()
		h.mu.Unlock()

		log.Debug("Waiting for host page to attach")
		select {
		case <-attached:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// detach forgets c if it is still the attached page.  Callers hold h.mu.
func (h *Hub) detach(c *conn) {
	if h.conn == c {
		h.conn = nil
		h.connected.Reset()
	}
}

func (h *Hub) do(ctx context.Context, req request) error {
	c, err := h.current(ctx)
	if err != nil {
		return err
	}
	_, err = c.request(ctx, req)
	return err
}

func (h *Hub) SetHTML(ctx context.Context, html string) error {
	return h.do(ctx, request{Op: opSetHTML, HTML: html})
}

// Clear empties the container.  Without an attached page there is nothing to clear.
func (h *Hub) Clear(ctx context.Context) error {
	h.mu.Lock()
	c := h.conn
	h.mu.Unlock()
	if c == nil {
		return nil
	}
	_, err := c.request(ctx, request{Op: opClear})
	if errors.Is(err, ErrDisconnected) {
		return nil
	}
	return err
}

func (h *Hub) SetAttribute(ctx context.Context, selector, name, value string) error {
	return h.do(ctx, request{Op: opSetAttribute, Selector: selector, Name: name, Value: value})
}

// Construct asks the page to instantiate a native player.  The handle is registered first so events fired during
// construction are kept.
func (h *Hub) Construct(ctx context.Context, spec player.Construct) (player.Native, error) {
	c, err := h.current(ctx)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	n := c.register(id)
	if _, err := c.request(ctx, request{Op: opConstruct, Handle: id, Construct: &spec}); err != nil {
		c.unregister(id)
		return nil, err
	}
	log.Debug("Native player constructed", "handle", id, "constructor", spec.Constructor, "target", spec.Target)
	return n, nil
}

// LoadScript loads an SDK script into the page and returns once its ready callback or global is available
func (h *Hub) LoadScript(ctx context.Context, script sdk.Script) error {
	return h.do(ctx, request{Op: opLoadScript, Script: &script})
}

// Close detaches the page and fails every request from now on
func (h *Hub) Close() {
	h.mu.Lock()
	c := h.conn
	h.closed = true
	h.conn = nil
	h.mu.Unlock()
	if c != nil {
		c.close()
	}
}

var (
	_ player.Mount     = (*Hub)(nil)
	_ sdk.ScriptLoader = (*Hub)(nil)
	_ player.Native    = (*native)(nil)
)
