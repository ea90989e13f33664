package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"chameleon.app/honeypot/internal/http/dto"
	"chameleon.app/honeypot/internal/service"
)

type HoneypotHandler struct {
	service service.HoneypotService
}

func NewHoneypotHandler(service service.HoneypotService) *HoneypotHandler {
	return &HoneypotHandler{service: service}
}

func (h *HoneypotHandler) Engage(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ConversationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid conversation input", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if strings.TrimSpace(req.Message.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message text must not be blank"})
		return
	}

	result, err := h.service.Process(ctx, service.ProcessParams{
		SessionID: req.SessionID,
		Message:   req.Message.Text,
		History:   req.ConversationHistory,
		Metadata:  req.Metadata,
	})
	if err != nil {
		// An engagement fault must never leak back to the sender as an
		// error page, that would burn the honeypot. Degrade to the
		// detection-phase reply instead.
		slog.ErrorContext(ctx, "failed to process message", "error", err, "session_id", req.SessionID)
		c.JSON(http.StatusOK, dto.AgentOutput{
			Status: "success",
			Reply:  service.SafeReply(req.Message.Text),
			InternalMetrics: map[string]any{
				"stage":      "detection",
				"confidence": 0.0,
			},
		})
		return
	}

	c.JSON(http.StatusOK, dto.AgentOutput{
		Status:          result.Status,
		Reply:           result.Reply,
		InternalMetrics: result.Metrics,
	})
}
