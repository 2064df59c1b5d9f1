package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chachabrian/sewo-backend/internal/models"
	"github.com/chachabrian/sewo-backend/pkg/utils"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BookingInput carries the caller-supplied fields of a new booking.
type BookingInput struct {
	VehicleID       uint
	StartDate       time.Time
	EndDate         time.Time
	PickupLocation  string
	DropoffLocation string
	SpecialRequest  string
}

// BookingService owns booking creation and every status change.
type BookingService struct {
	db     *gorm.DB
	qr     *QRService
	events *EventBus
}

func NewBookingService(db *gorm.DB, qr *QRService, events *EventBus) *BookingService {
	return &BookingService{db: db, qr: qr, events: events}
}

func loadBooking(db *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := db.Preload("Vehicle").First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load booking %d: %w", id, err)
	}
	return &booking, nil
}

// participantBookingIDs selects ids of bookings where userID is the customer or the vehicle owner.
func participantBookingIDs(db *gorm.DB, userID uint) *gorm.DB {
	return db.Model(&models.Booking{}).
		Select("bookings.id").
		Joins("JOIN vehicles ON vehicles.id = bookings.vehicle_id").
		Where("bookings.customer_id = ? OR vehicles.owner_id = ?", userID, userID)
}

// CreateBooking stores a pending booking, its creation log entry and its QR voucher atomically.
func (s *BookingService) CreateBooking(ctx context.Context, customerID uint, in BookingInput) (*models.Booking, error) {
	if !in.EndDate.After(in.StartDate) {
		return nil, ErrInvalidDates
	}

	var booking models.Booking
	var voucher *models.QRCode
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vehicle models.Vehicle
		if err := tx.First(&vehicle, in.VehicleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load vehicle: %w", err)
		}
		if !vehicle.IsAvailable {
			return ErrVehicleUnavailable
		}

		quote := utils.CalculateRentalPrice(vehicle.DailyPrice, in.StartDate, in.EndDate)
		booking = models.Booking{
			CustomerID:      customerID,
			VehicleID:       vehicle.ID,
			StartDate:       in.StartDate,
			EndDate:         in.EndDate,
			PickupLocation:  in.PickupLocation,
			DropoffLocation: in.DropoffLocation,
			TotalPrice:      quote.Total,
			Status:          models.BookingStatusPending,
			SpecialRequest:  in.SpecialRequest,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		if err := appendLog(tx, booking.ID, nil, models.BookingStatusPending, customerID, bookingCreatedDescription); err != nil {
			return err
		}

		qr, err := s.qr.Issue(tx, &booking)
		if err != nil {
			return err
		}
		voucher = qr
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.qr.storeImage(ctx, voucher)

	log.WithFields(log.Fields{
		"booking_id":  booking.ID,
		"customer_id": customerID,
		"vehicle_id":  booking.VehicleID,
	}).Info("booking created")

	return s.Get(ctx, booking.ID, customerID)
}

// ChangeStatus moves a booking to requested on behalf of actingUserID and
// records the change in the audit log within the same transaction.
func (s *BookingService) ChangeStatus(ctx context.Context, bookingID uint, requested string, actingUserID uint) (*models.Booking, error) {
	next, err := models.ParseBookingStatus(requested)
	if err != nil {
		return nil, ErrInvalidStatus
	}

	var previous models.BookingStatus
	var participants []uint
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := loadBooking(tx, bookingID)
		if err != nil {
			return err
		}
		if !booking.IsParticipant(actingUserID) {
			return ErrForbidden
		}
		if booking.Status == next {
			return ErrNoChange
		}
		if !models.CanTransition(booking.Status, next) {
			return ErrIllegalTransition
		}

		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ?", booking.ID, booking.Status).
			Update("status", next)
		if res.Error != nil {
			return fmt.Errorf("failed to update booking status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}

		previous = booking.Status
		participants = booking.Participants()
		return appendLog(tx, booking.ID, &previous, next, actingUserID, statusChangedDescription(previous, next))
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"booking_id": bookingID,
		"from":       previous,
		"to":         next,
		"user_id":    actingUserID,
	}).Info("booking status changed")

	s.events.Publish(ctx, ChannelBookings, participants, EventBookingStatusChanged, map[string]interface{}{
		"booking_id":      bookingID,
		"previous_status": previous,
		"status":          next,
		"changed_by":      actingUserID,
	})

	return s.Get(ctx, bookingID, actingUserID)
}

// Get returns a booking with its vehicle and customer if requesterID takes part in it.
func (s *BookingService) Get(ctx context.Context, bookingID, requesterID uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).
		Preload("Vehicle").
		Preload("Customer").
		Preload("QRCode").
		First(&booking, bookingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load booking %d: %w", bookingID, err)
	}
	if !booking.IsParticipant(requesterID) {
		return nil, ErrForbidden
	}
	return &booking, nil
}

// List returns the bookings userID takes part in, newest first, optionally filtered by status.
func (s *BookingService) List(ctx context.Context, userID uint, status models.BookingStatus) ([]models.Booking, error) {
	db := s.db.WithContext(ctx)

	query := db.Preload("Vehicle").
		Where("id IN (?)", participantBookingIDs(db, userID))
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := query.Order("created_at DESC").Order("id DESC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}
