package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/chachabrian/sewo-backend/internal/models"
	"github.com/chachabrian/sewo-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Username    string `json:"username" binding:"required,max=150"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Role        string `json:"role" binding:"required,oneof=partner customer"`
	PhoneNumber string `json:"phone_number" binding:"omitempty,max=15"`
	Address     string `json:"address"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Register(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}

		user := models.User{
			Username:    input.Username,
			Email:       strings.ToLower(input.Email),
			Password:    input.Password,
			Role:        models.UserRole(input.Role),
			PhoneNumber: input.PhoneNumber,
			Address:     input.Address,
		}
		if err := user.HashPassword(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password", "code": "internal"})
			return
		}

		var existing int64
		db.Model(&models.User{}).Where("email = ? OR username = ?", user.Email, user.Username).Count(&existing)
		if existing > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "A user with this email or username already exists", "code": "conflict"})
			return
		}

		if err := db.Create(&user).Error; err != nil {
			log.WithError(err).Error("failed to create user")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user", "code": "internal"})
			return
		}

		token, err := utils.GenerateToken(&user, secret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token", "code": "internal"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
	}
}

func Login(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}

		var user models.User
		if err := db.Where("email = ?", strings.ToLower(input.Email)).First(&user).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.WithError(err).Error("failed to load user")
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials", "code": "unauthorized"})
			return
		}

		if err := user.CheckPassword(input.Password); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials", "code": "unauthorized"})
			return
		}

		token, err := utils.GenerateToken(&user, secret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token", "code": "internal"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}
