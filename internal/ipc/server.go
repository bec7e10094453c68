package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/PizzaHomicide/reel/internal/log"
	"github.com/PizzaHomicide/reel/internal/session"
	"github.com/google/uuid"
)

const maxLine = 1 << 20

// Server accepts control clients on a unix socket, or a named pipe on windows
type Server struct {
	session *session.Controller
	path    string

	mu       sync.Mutex
	listener net.Listener
	clients  map[string]net.Conn
	wg       sync.WaitGroup
}

func NewServer(s *session.Controller, path string) *Server {
	return &Server{
		session: s,
		path:    path,
		clients: make(map[string]net.Conn),
	}
}

// Path is the socket path clients connect to
func (s *Server) Path() string {
	return s.path
}

// Serve listens on the socket and serves clients until ctx is cancelled
func (s *Server) Serve(ctx context.Context) error {
	l, err := listen(s.path)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.path, err)
	}
	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()
	log.Info("IPC server listening", "path", s.path)

	stop := context.AfterFunc(ctx, s.shutdown)
	defer stop()

	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.wg.Wait()
				log.Info("IPC server stopped")
				return nil
			}
			return fmt.Errorf("failed to accept ipc client: %w", err)
		}

		id := uuid.NewString()
		s.mu.Lock()
		s.clients[id] = conn
		s.mu.Unlock()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveClient(ctx, id, conn)
		}()
	}
}

// shutdown stops accepting and disconnects every client
func (s *Server) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	for _, conn := range s.clients {
		_ = conn.Close()
	}
}

type client struct {
	id      string
	conn    net.Conn
	writeMu sync.Mutex
	log     *log.Logger
}

func (c *client) send(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.log.Error("Failed to marshal ipc message", "error", err)
		return
	}
	data = append(data, '\n')

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := c.conn.Write(data); err != nil {
		c.log.Debug("Failed to write to ipc client", "error", err)
	}
}

func (s *Server) serveClient(ctx context.Context, id string, conn net.Conn) {
	c := &client{id: id, conn: conn, log: log.With("client", id)}
	ctx, cancel := context.WithCancel(ctx)
	var inflight sync.WaitGroup
	defer func() {
		cancel()
		inflight.Wait()
		_ = conn.Close()
		s.mu.Lock()
		delete(s.clients, id)
		s.mu.Unlock()
		c.log.Debug("IPC client disconnected")
	}()
	c.log.Debug("IPC client connected")

	notes, unsubscribe := s.session.Subscribe()
	defer unsubscribe()
	inflight.Add(1)
	go func() {
		defer inflight.Done()
		for {
			select {
			case n, ok := <-notes:
				if !ok {
					return
				}
				c.send(event{Event: n.Kind, Data: n.Value()})
			case <-ctx.Done():
				return
			}
		}
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), maxLine)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		c.log.Trace("Raw ipc command", "data", string(line))

		var cmd command
		if err := json.Unmarshal(line, &cmd); err != nil {
			c.send(reply{Error: "invalid json: " + err.Error()})
			continue
		}

		// Commands run concurrently so a slow set_url does not hold up the transport commands behind it
		inflight.Add(1)
		go func() {
			defer inflight.Done()
			c.send(s.execute(ctx, cmd))
		}()
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		c.log.Warn("Error reading from ipc client", "error", err)
	}
}

func (s *Server) execute(ctx context.Context, cmd command) reply {
	r := reply{RequestID: cmd.RequestID, Error: errSuccess}
	if len(cmd.Command) == 0 {
		r.Error = "missing command"
		return r
	}
	name, err := arg[string](cmd.Command, 0)
	if err != nil {
		r.Error = "command name must be a string"
		return r
	}
	h, ok := commands[name]
	if !ok {
		r.Error = fmt.Sprintf("unknown command %q", name)
		return r
	}

	data, err := h(ctx, s.session, cmd.Command[1:])
	if err != nil {
		log.Debug("IPC command failed", "command", name, "error", err)
		r.Error = err.Error()
		return r
	}
	r.Data = data
	return r
}
