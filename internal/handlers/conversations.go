package handlers

import (
	"net/http"

	"github.com/chachabrian/sewo-backend/internal/services"
	"github.com/gin-gonic/gin"
)

func StartConversation(convs *services.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			BookingID uint `json:"booking_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}

		conv, created, err := convs.StartOrGet(c.Request.Context(), input.BookingID, c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		c.JSON(status, conv)
	}
}

func ListConversations(convs *services.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := convs.ListConversations(c.Request.Context(), c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func GetConversation(convs *services.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		conv, err := convs.GetConversation(c.Request.Context(), id, c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, conv)
	}
}

func ListMessages(convs *services.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		messages, err := convs.ListMessages(c.Request.Context(), id, c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, messages)
	}
}

func PostMessage(convs *services.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		var input struct {
			Content string `json:"content" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}

		msg, err := convs.PostMessage(c.Request.Context(), id, c.GetUint("userId"), input.Content)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, msg)
	}
}

func GetMessage(convs *services.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		msg, err := convs.GetMessage(c.Request.Context(), id, c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, msg)
	}
}

// MarkConversationRead flags the other participant's messages as read.
func MarkConversationRead(convs *services.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		n, err := convs.MarkRead(c.Request.Context(), id, c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "messages_updated": n})
	}
}
