package models

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusOngoing   BookingStatus = "ongoing"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// BookingStatuses lists every known status in lifecycle order.
var BookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusOngoing,
	BookingStatusCompleted,
	BookingStatusCancelled,
}

// bookingTransitions is the single place that decides which status changes are legal.
// Every status may currently move to every other status.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   BookingStatuses,
	BookingStatusConfirmed: BookingStatuses,
	BookingStatusOngoing:   BookingStatuses,
	BookingStatusCompleted: BookingStatuses,
	BookingStatusCancelled: BookingStatuses,
}

func (s BookingStatus) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

func (s BookingStatus) String() string {
	return string(s)
}

// CanTransition reports whether a booking in status from may be moved to status to.
// A no-op (from == to) is never a transition.
func CanTransition(from, to BookingStatus) bool {
	if from == to {
		return false
	}
	for _, allowed := range bookingTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %q", s)
	}
	return status, nil
}

type Booking struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	CustomerID      uint          `gorm:"not null;index" json:"customer"`
	Customer        *User         `gorm:"foreignKey:CustomerID" json:"-"`
	VehicleID       uint          `gorm:"not null;index" json:"vehicle"`
	Vehicle         *Vehicle      `gorm:"foreignKey:VehicleID" json:"-"`
	StartDate       time.Time     `gorm:"not null" json:"start_date"`
	EndDate         time.Time     `gorm:"not null" json:"end_date"`
	PickupLocation  string        `gorm:"size:200" json:"pickup_location,omitempty"`
	DropoffLocation string        `gorm:"size:200" json:"dropoff_location,omitempty"`
	TotalPrice      float64       `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Status          BookingStatus `gorm:"type:varchar(10);not null;default:'pending';index" json:"status"`
	SpecialRequest  string        `json:"special_request,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	Logs         []BookingLog  `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"-"`
	Payments     []Payment     `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"-"`
	Reviews      []Review      `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"-"`
	QRCode       *QRCode       `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"-"`
	Conversation *Conversation `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Booking) TableName() string {
	return "bookings"
}

// OwnerID is the vehicle owner's id; Vehicle must be loaded.
func (b *Booking) OwnerID() uint {
	if b.Vehicle == nil {
		return 0
	}
	return b.Vehicle.OwnerID
}

// IsParticipant reports whether userID is the booking's customer or the vehicle owner.
func (b *Booking) IsParticipant(userID uint) bool {
	if userID == 0 {
		return false
	}
	return userID == b.CustomerID || userID == b.OwnerID()
}

// Participants returns the customer and owner ids.
func (b *Booking) Participants() []uint {
	return []uint{b.CustomerID, b.OwnerID()}
}

type BookingLog struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	BookingID      uint           `gorm:"not null;index" json:"booking"`
	PreviousStatus *BookingStatus `gorm:"type:varchar(10)" json:"previous_status"`
	NewStatus      BookingStatus  `gorm:"type:varchar(10);not null" json:"new_status"`
	Description    string         `gorm:"type:text" json:"description"`
	ChangedByID    *uint          `gorm:"index" json:"changed_by"`
	ChangedBy      *User          `gorm:"foreignKey:ChangedByID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt      time.Time      `gorm:"index" json:"timestamp"`
}

func (BookingLog) TableName() string {
	return "booking_logs"
}
