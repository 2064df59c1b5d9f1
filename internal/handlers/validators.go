package handlers

import (
	"sync"

	"github.com/chachabrian/sewo-backend/internal/models"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the enum validators used in binding tags.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterValidation("bookingstatus", func(fl validator.FieldLevel) bool {
			return models.BookingStatus(fl.Field().String()).IsValid()
		})
		v.RegisterValidation("paymentstatus", func(fl validator.FieldLevel) bool {
			return models.PaymentStatus(fl.Field().String()).IsValid()
		})
	})
}
