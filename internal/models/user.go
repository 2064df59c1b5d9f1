package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type UserRole string

const (
	RolePartner  UserRole = "partner"
	RoleCustomer UserRole = "customer"
)

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"uniqueIndex;not null" json:"username"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	Password       string    `gorm:"-:all" json:"-"` // plain text, only set before HashPassword
	PasswordHash   string    `gorm:"not null" json:"-"`
	Role           UserRole  `gorm:"type:varchar(10);not null" json:"role"`
	PhoneNumber    string    `json:"phone_number,omitempty"`
	Address        string    `json:"address,omitempty"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	IDCardNumber   string    `json:"id_card_number,omitempty"`
	IDCardPhoto    string    `json:"id_card_photo,omitempty"`
	IsVerified     bool      `gorm:"not null;default:false" json:"is_verified"`
	CreatedAt      time.Time `json:"date_joined"`
	UpdatedAt      time.Time `json:"-"`

	Vehicles []Vehicle `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Bookings []Booking `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (r UserRole) IsValid() bool {
	return r == RolePartner || r == RoleCustomer
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	u.Password = ""
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// PublicView strips identity-document fields for viewers other than the user.
func (u User) PublicView(viewerID uint) User {
	if viewerID == u.ID {
		return u
	}
	u.Address = ""
	u.IDCardNumber = ""
	u.IDCardPhoto = ""
	u.PhoneNumber = ""
	return u
}
