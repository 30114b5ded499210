package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/chambanica/chambanica-api/pkg/apperr"
	"github.com/chambanica/chambanica-api/pkg/response"
)

// fail maps a service error onto the response envelope. Internal failures
// keep their details out of the reply.
func fail(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	msg := err.Error()
	if status >= 500 {
		msg = "service temporarily unavailable"
	}
	response.Error[any](c, status, msg, nil)
}

// streamSSE drains a snapshot channel into a server-sent events stream,
// rendering each snapshot through view. The channel closes when the request
// context is cancelled.
func streamSSE[T, V any](c *gin.Context, ch <-chan T, view func(T) V) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Stream(func(w io.Writer) bool {
		snap, ok := <-ch
		if !ok {
			return false
		}
		c.SSEvent("snapshot", view(snap))
		return true
	})
}
