// File: carbook/handlers/chat.go
package handlers

import (
	"errors"
	"net/http"

	"carbook/models"
	"carbook/services/chat"

	"github.com/gin-gonic/gin"
)

// ChatHandler accepts turns already classified by the language component.
type ChatHandler struct {
	Chat chat.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(svc chat.ChatService) *ChatHandler {
	return &ChatHandler{Chat: svc}
}

// HandleTurn processes one structured turn.
func (h *ChatHandler) HandleTurn(c *gin.Context) {
	var input models.ChatIn
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input", "details": err.Error()})
		return
	}

	out, err := h.Chat.ProcessTurn(c.Request.Context(), input)
	if err != nil {
		if out != nil && errors.Is(err, models.ErrUnavailable) {
			// slots were saved; the client may resend the same turn
			getLogger(c).Warn("Turn saved but commit unavailable")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"message": "reservation storage unavailable, please retry",
				"details": err.Error(),
				"result":  out,
			})
			return
		}
		respondError(c, "failed to process turn", err)
		return
	}
	c.JSON(http.StatusOK, out)
}
