package handlers

import (
	"net/http"
	"time"

	"github.com/chachabrian/sewo-backend/internal/models"
	"github.com/chachabrian/sewo-backend/internal/services"
	"github.com/gin-gonic/gin"
)

type bookingResponse struct {
	*models.Booking
	VehicleDetails  *models.Vehicle `json:"vehicle_details,omitempty"`
	CustomerDetails *models.User    `json:"customer_details,omitempty"`
	QRCode          *models.QRCode  `json:"qr_code,omitempty"`
}

func newBookingResponse(b *models.Booking, viewerID uint) bookingResponse {
	resp := bookingResponse{Booking: b, VehicleDetails: b.Vehicle, QRCode: b.QRCode}
	if b.Customer != nil {
		customer := b.Customer.PublicView(viewerID)
		resp.CustomerDetails = &customer
	}
	return resp
}

type CreateBookingInput struct {
	VehicleID       uint      `json:"vehicle" binding:"required"`
	StartDate       time.Time `json:"start_date" binding:"required"`
	EndDate         time.Time `json:"end_date" binding:"required,gtfield=StartDate"`
	PickupLocation  string    `json:"pickup_location" binding:"max=200"`
	DropoffLocation string    `json:"dropoff_location" binding:"max=200"`
	SpecialRequest  string    `json:"special_request"`
}

// CreateBooking books a vehicle for the calling customer.
func CreateBooking(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, string(models.RoleCustomer)) {
			return
		}

		var input CreateBookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}

		userID := c.GetUint("userId")
		booking, err := bookings.CreateBooking(c.Request.Context(), userID, services.BookingInput{
			VehicleID:       input.VehicleID,
			StartDate:       input.StartDate,
			EndDate:         input.EndDate,
			PickupLocation:  input.PickupLocation,
			DropoffLocation: input.DropoffLocation,
			SpecialRequest:  input.SpecialRequest,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, newBookingResponse(booking, userID))
	}
}

// ListBookings returns bookings the caller rents or owns the vehicle of.
func ListBookings(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var query struct {
			Status string `form:"status" binding:"omitempty,bookingstatus"`
		}
		if err := c.ShouldBindQuery(&query); err != nil {
			respondBindError(c, err)
			return
		}

		list, err := bookings.List(c.Request.Context(), c.GetUint("userId"), models.BookingStatus(query.Status))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func GetBooking(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		userID := c.GetUint("userId")
		booking, err := bookings.Get(c.Request.Context(), id, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, newBookingResponse(booking, userID))
	}
}

// ChangeBookingStatus moves a booking to the requested status.
func ChangeBookingStatus(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		var input struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}

		userID := c.GetUint("userId")
		booking, err := bookings.ChangeStatus(c.Request.Context(), id, input.Status, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, newBookingResponse(booking, userID))
	}
}

func GetBookingLogs(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		logs, err := bookings.Logs(c.Request.Context(), id, c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, logs)
	}
}
