package controllers

import (
	"io"

	"product-catalog/events"
	"product-catalog/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// eventBuffer bounds how far a slow stream may fall behind before events
// are dropped for it.
const eventBuffer = 32

// EventsController streams catalog changes to list views as server-sent
// events, so they know when to reload.
type EventsController struct {
	source EventSource
}

func NewEventsController(source EventSource) *EventsController {
	return &EventsController{source: source}
}

// Stream holds the connection open and writes one SSE message per event.
func (ctrl *EventsController) Stream(c *gin.Context) {
	ch := make(chan events.Event, eventBuffer)
	unsubscribe := ctrl.source.Subscribe(func(e events.Event) {
		select {
		case ch <- e:
		default:
			logger.Warn(c, "Dropping product event for slow stream", zap.String("type", string(e.Type)))
		}
	})
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent("ready", gin.H{"subscribed": true})
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case e := <-ch:
			c.SSEvent(string(e.Type), e)
			return true
		}
	})
}
