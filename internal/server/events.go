package server

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
)

// events streams player notifications as server-sent events named after their kind.  The stream opens with a
// status snapshot so a client needs no separate request to catch up.
func (s *Server) events(c *gin.Context) {
	notes, cancel := s.session.Subscribe()
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.SSEvent("status", s.session.Status())
	c.Writer.Flush()

	done := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case n, ok := <-notes:
			if !ok {
				return false
			}
			c.SSEvent(string(n.Kind), n)
			return true
		case <-time.After(s.heartbeat):
			c.SSEvent("heartbeat", gin.H{"time": time.Now()})
			return true
		case <-done:
			return false
		}
	})
}
