package models

import "time"

type VehicleType string

const (
	VehicleTypeCar       VehicleType = "car"
	VehicleTypeMotorbike VehicleType = "motorbike"
)

type FuelType string

const (
	FuelTypeFuel     FuelType = "fuel"
	FuelTypeElectric FuelType = "electric"
)

type Vehicle struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	OwnerID      uint        `gorm:"not null;index" json:"owner"`
	Owner        *User       `gorm:"foreignKey:OwnerID" json:"-"`
	Brand        string      `gorm:"size:100;not null" json:"brand"`
	Model        string      `gorm:"size:100;not null" json:"model"`
	LicensePlate string      `gorm:"size:20;not null" json:"license_plate"`
	Year         int         `gorm:"not null" json:"year"`
	Color        string      `gorm:"size:20" json:"color,omitempty"`
	DailyPrice   float64     `gorm:"type:decimal(10,2);not null" json:"daily_price"`
	Description  string      `json:"description,omitempty"`
	IsAvailable  bool        `gorm:"not null" json:"is_available"`
	Location     string      `gorm:"size:200;not null" json:"location"`
	Mileage      *int        `json:"mileage,omitempty"`
	VehicleType  VehicleType `gorm:"type:varchar(10);not null" json:"vehicle_type"`
	FuelType     FuelType    `gorm:"type:varchar(10);not null" json:"fuel_type"`
	VehiclePhoto string      `json:"vehicle_photo,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"-"`

	Bookings []Booking `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}
