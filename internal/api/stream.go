package api

import (
	"io"

	"github.com/NischalAcharya060/GearZone-sub001/internal/notification"

	"github.com/gin-gonic/gin"
)

const streamBuffer = 16

// StreamNotifications sends the current unread state, then every watcher
// signal as a server-sent event named after its kind.
func (h *Handlers) StreamNotifications(c *gin.Context) {
	signals := make(chan notification.Signal, streamBuffer)
	h.watcher.Subscribe(signals)
	defer h.watcher.Unsubscribe(signals)

	state := h.watcher.State()
	c.SSEvent(string(notification.Count), notification.Signal{
		Kind:     notification.Count,
		Identity: state.Identity,
		Unread:   state.UnreadCount,
	})
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case s, ok := <-signals:
			if !ok {
				return false
			}
			c.SSEvent(string(s.Kind), s)
			return true
		case <-ctx.Done():
			return false
		}
	})
}
