package models

import "time"

type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BookingID  uint      `gorm:"not null;index" json:"booking"`
	CustomerID uint      `gorm:"not null;index" json:"customer"`
	Customer   *User     `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"-"`
	VehicleID  uint      `gorm:"not null;index" json:"vehicle"`
	Vehicle    *Vehicle  `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"-"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Review) TableName() string {
	return "reviews"
}
