// Package server exposes the player session over HTTP.  It serves the host page and its bridge endpoint, a JSON API
// over the session controller and a server-sent-events stream of player notifications.
package server

import (
	"context"
	_ "embed"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/PizzaHomicide/reel/internal/log"
	"github.com/PizzaHomicide/reel/internal/session"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

//go:embed web/index.html
var indexHTML []byte

//go:embed web/bridge.js
var bridgeJS []byte

// Server routes HTTP requests to the session controller and the host page bridge
type Server struct {
	session *session.Controller
	bridge  http.Handler
	engine  *gin.Engine
	// heartbeat is the idle interval after which the event stream sends a keepalive
	heartbeat time.Duration
	onListen  func(net.Addr)
}

// New builds the router.  bridge serves the host page websocket.
func New(s *session.Controller, bridge http.Handler) *Server {
	gin.SetMode(gin.ReleaseMode)
	srv := &Server{
		session:   s,
		bridge:    bridge,
		engine:    gin.New(),
		heartbeat: 30 * time.Second,
	}
	srv.engine.Use(gin.Recovery(), requestLogger())
	srv.routes()
	return srv
}

func (s *Server) routes() {
	r := s.engine
	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
	})
	r.GET("/bridge.js", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/javascript; charset=utf-8", bridgeJS)
	})
	r.GET("/bridge", gin.WrapH(s.bridge))
	r.GET("/health", s.health)

	api := r.Group("/api")
	api.GET("/classify", s.classify)
	api.GET("/events", s.events)

	p := api.Group("/player")
	p.GET("", s.status)
	p.PUT("/url", s.setURL)
	p.DELETE("/url", s.clear)
	p.PUT("/size", s.setSize)
	p.GET("/state", s.state)
	p.PUT("/state", s.setState)
	p.PUT("/volume", s.setVolume)
	p.PUT("/mute", s.setMute)
	p.PUT("/seek", s.seek)
	p.GET("/pip", s.pip)
	p.PUT("/pip", s.setPip)
	p.GET("/fullscreen", s.fullscreen)
	p.PUT("/fullscreen", s.setFullscreen)
	p.GET("/title", s.title)
}

// OnListening registers fn to run once the listener is bound, before any request is served
func (s *Server) OnListening(fn func(addr net.Addr)) {
	s.onListen = fn
}

// Handler returns the router, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:    addr,
		Handler: s.engine,
		// Cancelling ctx ends the long-lived event streams so shutdown can complete
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.Info("HTTP server listening", "addr", ln.Addr().String())
	if s.onListen != nil {
		s.onListen(ln.Addr())
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("HTTP server stopped")
	return nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
