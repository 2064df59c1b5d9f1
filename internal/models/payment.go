package models

import "time"

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return true
	}
	return false
}

// Payment records what the gateway reported; amounts are not checked against the booking.
type Payment struct {
	ID               uint          `gorm:"primaryKey" json:"id"`
	BookingID        uint          `gorm:"not null;index" json:"booking"`
	PaymentGatewayID string        `gorm:"size:100;not null" json:"payment_gateway_id"`
	Amount           float64       `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentMethod    string        `gorm:"size:50" json:"payment_method,omitempty"`
	PaymentStatus    PaymentStatus `gorm:"type:varchar(10);not null;default:'pending'" json:"payment_status"`
	PaymentDate      time.Time     `gorm:"autoCreateTime" json:"payment_date"`
}

func (Payment) TableName() string {
	return "payments"
}
