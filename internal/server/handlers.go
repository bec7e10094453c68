package server

import (
	"errors"
	"net/http"

	"github.com/PizzaHomicide/reel/internal/domain"
	"github.com/PizzaHomicide/reel/internal/version"
	"github.com/gin-gonic/gin"
)

type urlBody struct {
	URL string `json:"url"`
}

type sizeBody struct {
	Width  int `json:"width" binding:"required"`
	Height int `json:"height" binding:"required"`
}

type stateBody struct {
	State *domain.PlaybackState `json:"state" binding:"required"`
}

type volumeBody struct {
	Volume *int `json:"volume" binding:"required"`
}

type muteBody struct {
	Muted *bool `json:"muted" binding:"required"`
}

type seekBody struct {
	Seconds *float64 `json:"seconds" binding:"required"`
}

type toggleBody struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version.GetVersion(),
		"phase":   s.session.Phase(),
	})
}

func (s *Server) classify(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		badRequest(c, errors.New("missing url query parameter"))
		return
	}
	req, err := s.session.Classify(url)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Status())
}

// setURL returns once the new player is ready.  A blank url clears the session.
func (s *Server) setURL(c *gin.Context) {
	var body urlBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.session.SetURL(c.Request.Context(), body.URL); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.session.Status())
}

func (s *Server) clear(c *gin.Context) {
	if err := s.session.Clear(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.session.Status())
}

func (s *Server) setSize(c *gin.Context) {
	var body sizeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.session.SetSize(c.Request.Context(), body.Width, body.Height); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) state(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": s.session.PlaybackState()})
}

func (s *Server) setState(c *gin.Context) {
	var body stateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.session.SetPlaybackState(c.Request.Context(), *body.State); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) setVolume(c *gin.Context) {
	var body volumeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.session.SetVolume(c.Request.Context(), *body.Volume); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) setMute(c *gin.Context) {
	var body muteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.session.SetMute(c.Request.Context(), *body.Muted); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) seek(c *gin.Context) {
	var body seekBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.session.Seek(c.Request.Context(), *body.Seconds); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) pip(c *gin.Context) {
	on, err := s.session.Pip(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": on})
}

func (s *Server) setPip(c *gin.Context) {
	var body toggleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.session.SetPip(c.Request.Context(), *body.Enabled); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) fullscreen(c *gin.Context) {
	on, err := s.session.Fullscreen(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": on})
}

func (s *Server) setFullscreen(c *gin.Context) {
	var body toggleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.session.SetFullscreen(c.Request.Context(), *body.Enabled); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) title(c *gin.Context) {
	title, err := s.session.Title(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"title": title})
}
