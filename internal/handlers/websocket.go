package handlers

import (
	"github.com/chachabrian/sewo-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// WebSocketHandler streams booking and chat events to the caller.
func WebSocketHandler(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		services.HandleWebSocket(hub, c.Writer, c.Request, c.GetUint("userId"), c.GetString("userType"))
	}
}
