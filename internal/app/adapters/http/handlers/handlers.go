package handlers

import (
	"github.com/gin-gonic/gin"
	"net/http"
	"tmichat/internal/app/adapters/chat"
	"tmichat/internal/app/ports"
	"tmichat/pkg/logger"
)

// Source is the part of the chat client the status pages read.
type Source interface {
	Status() chat.Status
	RoomState(channel string) (ports.RoomState, bool)
}

type Handlers struct {
	log    logger.Logger
	source Source
}

func New(log logger.Logger, source Source) *Handlers {
	return &Handlers{
		log:    log,
		source: source,
	}
}

func (h *Handlers) StatusHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.source.Status())
}

func (h *Handlers) RoomStateHandler(c *gin.Context) {
	channel := c.Param("channel")

	rs, ok := h.source.RoomState(channel)
	if !ok {
		h.log.Debug("Room state not found", "channel", channel)
		c.JSON(http.StatusNotFound, gin.H{"error": "room state not found"})
		return
	}

	c.JSON(http.StatusOK, rs)
}
