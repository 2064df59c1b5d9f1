package handlers

import (
	"errors"
	"net/http"

	"github.com/chachabrian/sewo-backend/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetProfile returns the caller's own record.
func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.First(&user, c.GetUint("userId")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "code": "not_found"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// UpdateProfile changes the caller's contact and identity fields. Role is fixed at registration.
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Username       *string `json:"username" binding:"omitempty,min=1,max=150"`
			PhoneNumber    *string `json:"phone_number" binding:"omitempty,max=15"`
			Address        *string `json:"address"`
			ProfilePicture *string `json:"profile_picture" binding:"omitempty,url"`
			IDCardNumber   *string `json:"id_card_number" binding:"omitempty,max=20"`
			IDCardPhoto    *string `json:"id_card_photo" binding:"omitempty,url"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}

		var user models.User
		if err := db.First(&user, c.GetUint("userId")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "code": "not_found"})
			return
		}

		if input.Username != nil {
			user.Username = *input.Username
		}
		if input.PhoneNumber != nil {
			user.PhoneNumber = *input.PhoneNumber
		}
		if input.Address != nil {
			user.Address = *input.Address
		}
		if input.ProfilePicture != nil {
			user.ProfilePicture = *input.ProfilePicture
		}
		if input.IDCardNumber != nil {
			user.IDCardNumber = *input.IDCardNumber
		}
		if input.IDCardPhoto != nil {
			user.IDCardPhoto = *input.IDCardPhoto
		}

		if err := db.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile", "code": "internal"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// GetUser shows another user's public profile.
func GetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		var user models.User
		if err := db.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "code": "not_found"})
				return
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user.PublicView(c.GetUint("userId")))
	}
}
