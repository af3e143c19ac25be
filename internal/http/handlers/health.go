package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	ping    func() error
	started time.Time
}

func NewHealthHandler(ping func() error) *HealthHandler {
	return &HealthHandler{
		ping:    ping,
		started: time.Now(),
	}
}

func (h *HealthHandler) Health(ctx *gin.Context) {
	database := "Connected"

	if h.ping != nil {
		if err := h.ping(); err != nil {
			database = "Disconnected"
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": database,
		"uptime":   time.Since(h.started).Round(time.Second).String(),
	})
}
