package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/chachabrian/sewo-backend/internal/database/databasetest"
	"github.com/chachabrian/sewo-backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-qr-secret"

type fixture struct {
	db       *gorm.DB
	qr       *QRService
	bookings *BookingService
	convs    *ConversationService

	customer models.User
	owner    models.User
	stranger models.User
	vehicle  models.Vehicle
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := databasetest.New(t)

	f := &fixture{db: db}
	f.qr = NewQRService(db, testSecret, 0, nil, nil)
	f.bookings = NewBookingService(db, f.qr, nil)
	f.convs = NewConversationService(db, nil)

	f.customer = createUser(t, db, "carla", models.RoleCustomer)
	f.owner = createUser(t, db, "omar", models.RolePartner)
	f.stranger = createUser(t, db, "sam", models.RoleCustomer)
	f.vehicle = createVehicle(t, db, f.owner.ID, 40)
	return f
}

func createUser(t *testing.T, db *gorm.DB, name string, role models.UserRole) models.User {
	t.Helper()
	user := models.User{
		Username:     name,
		Email:        fmt.Sprintf("%s@example.com", name),
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createVehicle(t *testing.T, db *gorm.DB, ownerID uint, dailyPrice float64) models.Vehicle {
	t.Helper()
	vehicle := models.Vehicle{
		OwnerID:      ownerID,
		Brand:        "Honda",
		Model:        "Wave",
		LicensePlate: fmt.Sprintf("59-X1 %d", time.Now().UnixNano()%100000),
		Year:         2021,
		DailyPrice:   dailyPrice,
		IsAvailable:  true,
		Location:     "Da Nang",
		VehicleType:  models.VehicleTypeMotorbike,
		FuelType:     models.FuelTypeFuel,
	}
	require.NoError(t, db.Create(&vehicle).Error)
	return vehicle
}

func (f *fixture) book(t *testing.T) *models.Booking {
	t.Helper()
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	booking, err := f.bookings.CreateBooking(context.Background(), f.customer.ID, BookingInput{
		VehicleID: f.vehicle.ID,
		StartDate: start,
		EndDate:   start.Add(48 * time.Hour),
	})
	require.NoError(t, err)
	return booking
}

func (f *fixture) logs(t *testing.T, bookingID uint) []models.BookingLog {
	t.Helper()
	var logs []models.BookingLog
	require.NoError(t, f.db.Where("booking_id = ?", bookingID).Order("id").Find(&logs).Error)
	return logs
}
