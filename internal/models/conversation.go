package models

import "time"

// Conversation belongs to one booking; its two participants are read from the booking.
type Conversation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BookingID uint      `gorm:"not null;uniqueIndex" json:"booking"`
	Booking   *Booking  `gorm:"foreignKey:BookingID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`

	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Conversation) TableName() string {
	return "conversations"
}

type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID uint      `gorm:"not null;index" json:"conversation"`
	SenderID       uint      `gorm:"not null;index" json:"sender"`
	Sender         *User     `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"-"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	IsRead         bool      `gorm:"not null;default:false" json:"is_read"`
	Timestamp      time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}

func (Message) TableName() string {
	return "messages"
}
