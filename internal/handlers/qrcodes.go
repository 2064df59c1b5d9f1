package handlers

import (
	"net/http"

	"github.com/chachabrian/sewo-backend/internal/services"
	"github.com/gin-gonic/gin"
)

func GetBookingQRCode(qr *services.QRService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		code, err := qr.Get(c.Request.Context(), id, c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, code)
	}
}

// VerifyQRCode redeems a scanned voucher for the vehicle owner at pickup.
func VerifyQRCode(qr *services.QRService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Payload string `json:"payload" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}

		userID := c.GetUint("userId")
		booking, customer, err := qr.Verify(c.Request.Context(), input.Payload, userID)
		if err != nil {
			respondError(c, err)
			return
		}

		resp := gin.H{
			"status":  "success",
			"booking": newBookingResponse(booking, userID),
		}
		if customer != nil {
			resp["customer"] = gin.H{
				"id":           customer.ID,
				"username":     customer.Username,
				"email":        customer.Email,
				"phone_number": customer.PhoneNumber,
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}
