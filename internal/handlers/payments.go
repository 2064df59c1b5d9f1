package handlers

import (
	"errors"
	"net/http"

	"github.com/chachabrian/sewo-backend/internal/models"
	"github.com/chachabrian/sewo-backend/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreatePaymentInput struct {
	BookingID        uint    `json:"booking" binding:"required"`
	PaymentGatewayID string  `json:"payment_gateway_id" binding:"required,max=100"`
	Amount           float64 `json:"amount" binding:"required,gt=0"`
	PaymentMethod    string  `json:"payment_method" binding:"max=50"`
	PaymentStatus    string  `json:"payment_status" binding:"omitempty,paymentstatus"`
}

// loadPayment fetches a payment and checks the caller takes part in its booking.
func loadPayment(c *gin.Context, db *gorm.DB, bookings *services.BookingService) (*models.Payment, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}

	var payment models.Payment
	if err := db.First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, services.ErrNotFound)
			return nil, false
		}
		respondError(c, err)
		return nil, false
	}
	if _, err := bookings.Get(c.Request.Context(), payment.BookingID, c.GetUint("userId")); err != nil {
		respondError(c, err)
		return nil, false
	}
	return &payment, true
}

// CreatePayment records a gateway payment against a booking.
func CreatePayment(db *gorm.DB, bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreatePaymentInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}

		if _, err := bookings.Get(c.Request.Context(), input.BookingID, c.GetUint("userId")); err != nil {
			respondError(c, err)
			return
		}

		payment := models.Payment{
			BookingID:        input.BookingID,
			PaymentGatewayID: input.PaymentGatewayID,
			Amount:           input.Amount,
			PaymentMethod:    input.PaymentMethod,
			PaymentStatus:    models.PaymentStatusPending,
		}
		if input.PaymentStatus != "" {
			payment.PaymentStatus = models.PaymentStatus(input.PaymentStatus)
		}

		if err := db.WithContext(c.Request.Context()).Create(&payment).Error; err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, payment)
	}
}

func GetPayment(db *gorm.DB, bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		payment, ok := loadPayment(c, db, bookings)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, payment)
	}
}

func ListBookingPayments(db *gorm.DB, bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		if _, err := bookings.Get(c.Request.Context(), id, c.GetUint("userId")); err != nil {
			respondError(c, err)
			return
		}

		var payments []models.Payment
		if err := db.WithContext(c.Request.Context()).
			Where("booking_id = ?", id).
			Order("payment_date ASC").Order("id ASC").
			Find(&payments).Error; err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, payments)
	}
}

// UpdatePaymentStatus applies a status reported by the gateway.
func UpdatePaymentStatus(db *gorm.DB, bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		payment, ok := loadPayment(c, db, bookings)
		if !ok {
			return
		}

		var input struct {
			PaymentStatus string `json:"payment_status" binding:"required,paymentstatus"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}

		if err := db.WithContext(c.Request.Context()).Model(payment).
			Update("payment_status", input.PaymentStatus).Error; err != nil {
			respondError(c, err)
			return
		}
		payment.PaymentStatus = models.PaymentStatus(input.PaymentStatus)
		c.JSON(http.StatusOK, payment)
	}
}
