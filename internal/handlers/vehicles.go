package handlers

import (
	"errors"
	"net/http"

	"github.com/chachabrian/sewo-backend/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type VehicleInput struct {
	Brand        string  `json:"brand" binding:"required,max=100"`
	Model        string  `json:"model" binding:"required,max=100"`
	LicensePlate string  `json:"license_plate" binding:"required,max=20"`
	Year         int     `json:"year" binding:"required,gte=1900,lte=2100"`
	Color        string  `json:"color" binding:"omitempty,max=20"`
	DailyPrice   float64 `json:"daily_price" binding:"gte=0"`
	Description  string  `json:"description"`
	IsAvailable  *bool   `json:"is_available"`
	Location     string  `json:"location" binding:"required,max=200"`
	Mileage      *int    `json:"mileage" binding:"omitempty,gte=0"`
	VehicleType  string  `json:"vehicle_type" binding:"required,oneof=car motorbike"`
	FuelType     string  `json:"fuel_type" binding:"required,oneof=fuel electric"`
	VehiclePhoto string  `json:"vehicle_photo" binding:"omitempty,url"`
}

func (in VehicleInput) apply(v *models.Vehicle) {
	v.Brand = in.Brand
	v.Model = in.Model
	v.LicensePlate = in.LicensePlate
	v.Year = in.Year
	v.Color = in.Color
	v.DailyPrice = in.DailyPrice
	v.Description = in.Description
	v.Location = in.Location
	v.Mileage = in.Mileage
	v.VehicleType = models.VehicleType(in.VehicleType)
	v.FuelType = models.FuelType(in.FuelType)
	v.VehiclePhoto = in.VehiclePhoto
	if in.IsAvailable != nil {
		v.IsAvailable = *in.IsAvailable
	}
}

// ListVehicles supports filtering by type, fuel, availability and location substring.
func ListVehicles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var query struct {
			Type      string `form:"type" binding:"omitempty,oneof=car motorbike"`
			Fuel      string `form:"fuel" binding:"omitempty,oneof=fuel electric"`
			Available *bool  `form:"available"`
			Location  string `form:"location"`
			Owner     uint   `form:"owner"`
		}
		if err := c.ShouldBindQuery(&query); err != nil {
			respondBindError(c, err)
			return
		}

		q := db.Model(&models.Vehicle{})
		if query.Type != "" {
			q = q.Where("vehicle_type = ?", query.Type)
		}
		if query.Fuel != "" {
			q = q.Where("fuel_type = ?", query.Fuel)
		}
		if query.Available != nil {
			q = q.Where("is_available = ?", *query.Available)
		}
		if query.Location != "" {
			q = q.Where("LOWER(location) LIKE LOWER(?)", "%"+query.Location+"%")
		}
		if query.Owner != 0 {
			q = q.Where("owner_id = ?", query.Owner)
		}

		var vehicles []models.Vehicle
		if err := q.Order("created_at DESC").Order("id DESC").Find(&vehicles).Error; err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, vehicles)
	}
}

func GetVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		var vehicle models.Vehicle
		if err := db.First(&vehicle, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found", "code": "not_found"})
				return
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, vehicle)
	}
}

// CreateVehicle lists a vehicle owned by the calling partner.
func CreateVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, string(models.RolePartner)) {
			return
		}

		var input VehicleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}

		vehicle := models.Vehicle{OwnerID: c.GetUint("userId"), IsAvailable: true}
		input.apply(&vehicle)

		if err := db.Create(&vehicle).Error; err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, vehicle)
	}
}

func loadOwnedVehicle(c *gin.Context, db *gorm.DB) (*models.Vehicle, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}

	var vehicle models.Vehicle
	if err := db.First(&vehicle, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found", "code": "not_found"})
			return nil, false
		}
		respondError(c, err)
		return nil, false
	}
	if vehicle.OwnerID != c.GetUint("userId") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can modify this vehicle", "code": "forbidden"})
		return nil, false
	}
	return &vehicle, true
}

func UpdateVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicle, ok := loadOwnedVehicle(c, db)
		if !ok {
			return
		}

		var input VehicleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		input.apply(vehicle)

		if err := db.Save(vehicle).Error; err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, vehicle)
	}
}

func DeleteVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicle, ok := loadOwnedVehicle(c, db)
		if !ok {
			return
		}

		if err := db.Delete(vehicle).Error; err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
