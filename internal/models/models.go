package models

// All returns every persisted model in dependency order for migrations.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Vehicle{},
		&Booking{},
		&BookingLog{},
		&Payment{},
		&Review{},
		&QRCode{},
		&Conversation{},
		&Message{},
	}
}
