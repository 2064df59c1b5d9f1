package handlers

import (
	"net/http"

	"github.com/chachabrian/sewo-backend/internal/models"
	"github.com/chachabrian/sewo-backend/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateReview lets a booking's customer rate the rented vehicle.
func CreateReview(db *gorm.DB, bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			BookingID uint   `json:"booking" binding:"required"`
			Rating    int    `json:"rating" binding:"required,min=1,max=5"`
			Comment   string `json:"comment"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}

		userID := c.GetUint("userId")
		booking, err := bookings.Get(c.Request.Context(), input.BookingID, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		if booking.CustomerID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the customer of this booking can review it", "code": "forbidden"})
			return
		}

		review := models.Review{
			BookingID:  booking.ID,
			CustomerID: userID,
			VehicleID:  booking.VehicleID,
			Rating:     input.Rating,
			Comment:    input.Comment,
		}
		if err := db.WithContext(c.Request.Context()).Create(&review).Error; err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}

func ListVehicleReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		var reviews []models.Review
		if err := db.WithContext(c.Request.Context()).
			Where("vehicle_id = ?", id).
			Order("created_at DESC").Order("id DESC").
			Find(&reviews).Error; err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}
