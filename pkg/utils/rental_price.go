package utils

import (
	"math"
	"time"
)

// RentalQuote is the price breakdown of a booking.
type RentalQuote struct {
	Days       int     `json:"days"`
	DailyPrice float64 `json:"daily_price"`
	Total      float64 `json:"total"`
}

// RentalDays counts started 24h periods between start and end, never less than one.
func RentalDays(start, end time.Time) int {
	if !end.After(start) {
		return 1
	}
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

// CalculateRentalPrice prices a rental at dailyPrice per started day.
func CalculateRentalPrice(dailyPrice float64, start, end time.Time) RentalQuote {
	days := RentalDays(start, end)
	if dailyPrice < 0 {
		dailyPrice = 0
	}

	return RentalQuote{
		Days:       days,
		DailyPrice: dailyPrice,
		Total:      math.Round(dailyPrice*float64(days)*100) / 100,
	}
}
