package services

import (
	"context"
	"fmt"

	"github.com/chachabrian/sewo-backend/internal/models"
	"gorm.io/gorm"
)

const bookingCreatedDescription = "Booking created"

func statusChangedDescription(from, to models.BookingStatus) string {
	return fmt.Sprintf("Status changed from %s to %s", from, to)
}

// appendLog records one audit entry. It must run in the transaction that
// wrote the status it describes.
func appendLog(tx *gorm.DB, bookingID uint, previous *models.BookingStatus, next models.BookingStatus, changedBy uint, description string) error {
	entry := models.BookingLog{
		BookingID:      bookingID,
		PreviousStatus: previous,
		NewStatus:      next,
		Description:    description,
	}
	if changedBy != 0 {
		entry.ChangedByID = &changedBy
	}

	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to write booking log: %w", err)
	}
	return nil
}

// Logs returns the audit trail of a booking, oldest first.
func (s *BookingService) Logs(ctx context.Context, bookingID, requesterID uint) ([]models.BookingLog, error) {
	db := s.db.WithContext(ctx)

	booking, err := loadBooking(db, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParticipant(requesterID) {
		return nil, ErrForbidden
	}

	var logs []models.BookingLog
	if err := db.Where("booking_id = ?", bookingID).
		Order("created_at ASC").Order("id ASC").
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list booking logs: %w", err)
	}
	return logs, nil
}
