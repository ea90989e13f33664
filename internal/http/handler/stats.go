package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"chameleon.app/honeypot/internal/service"
	"chameleon.app/honeypot/internal/store"
)

type StatsHandler struct {
	stats    service.StatsService
	sessions *store.Sessions
}

func NewStatsHandler(stats service.StatsService, sessions *store.Sessions) *StatsHandler {
	return &StatsHandler{
		stats:    stats,
		sessions: sessions,
	}
}

func (h *StatsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
		"active_sessions": h.sessions.Len(),
	})
}

func (h *StatsHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.stats.Collect())
}
