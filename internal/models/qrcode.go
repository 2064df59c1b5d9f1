package models

import "time"

type QRCode struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	BookingID   uint       `gorm:"not null;uniqueIndex" json:"booking"`
	Payload     string     `gorm:"type:text;not null" json:"qr_code_data"`
	ImageURL    string     `gorm:"type:text;not null" json:"qr_code_image_url"`
	IsScanned   bool       `gorm:"not null;default:false" json:"is_scanned"`
	ScannedAt   *time.Time `json:"scanned_at"`
	ScannedByID *uint      `json:"scanned_by,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (QRCode) TableName() string {
	return "qr_codes"
}

func (q *QRCode) IsExpired(now time.Time) bool {
	return q.ExpiresAt != nil && !now.Before(*q.ExpiresAt)
}
