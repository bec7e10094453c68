package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/PizzaHomicide/reel/internal/bridge"
	"github.com/PizzaHomicide/reel/internal/domain"
	"github.com/PizzaHomicide/reel/internal/log"
	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	var pageErr *bridge.PageError
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoPlayer):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnsupported):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrReadyTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &pageErr), errors.Is(err, bridge.ErrDisconnected):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrClosed), errors.Is(err, bridge.ErrClosed):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "path", c.Request.URL.Path, "status", status, "error", err)
	} else {
		log.Debug("Request rejected", "path", c.Request.URL.Path, "status", status, "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
