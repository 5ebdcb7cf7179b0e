package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"invoice-analytics-backend/internal/logger"
	"invoice-analytics-backend/internal/services/chat"
)

type ChatHandler struct {
	client *chat.Client
	log    zerolog.Logger
}

func NewChatHandler(client *chat.Client) *ChatHandler {
	return &ChatHandler{client: client, log: logger.WithComponent("chat")}
}

// Query proxies a natural-language question to the SQL-generation service.
// Connection failures and upstream rejections are surfaced distinctly.
func (h *ChatHandler) Query(c *gin.Context) {
	var payload struct {
		Query string `json:"query"`
	}
	if err := c.BindJSON(&payload); err != nil || strings.TrimSpace(payload.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	data, err := h.client.Query(c.Request.Context(), payload.Query)
	if err != nil {
		var upstream *chat.UpstreamError
		var unreachable *chat.UnreachableError
		switch {
		case errors.Is(err, chat.ErrNotConfigured):
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "chat service not configured",
				"details": "VANNA_API_BASE_URL environment variable is not set",
			})
		case errors.As(err, &unreachable):
			h.log.Error().Err(err).Msg("chat service unreachable")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "cannot connect to chat service",
				"details": unreachable.Err.Error(),
			})
		case errors.As(err, &upstream):
			h.log.Warn().Int("status", upstream.Status).Msg("chat service rejected query")
			c.JSON(http.StatusBadGateway, gin.H{
				"error":   "failed to process query",
				"details": upstream.Details,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.Data(http.StatusOK, "application/json", data)
}
