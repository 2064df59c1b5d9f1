package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chachabrian/sewo-backend/internal/database/databasetest"
	"github.com/chachabrian/sewo-backend/internal/models"
	"github.com/chachabrian/sewo-backend/internal/services"
	"github.com/chachabrian/sewo-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "jwt-test-secret"

type testAPI struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	qr     *services.QRService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard

	db := databasetest.New(t)
	qr := services.NewQRService(db, "qr-test-secret", 0, nil, nil)
	router := NewRouter(Deps{
		DB:            db,
		JWTSecret:     testJWTSecret,
		Bookings:      services.NewBookingService(db, qr, nil),
		QRCodes:       qr,
		Conversations: services.NewConversationService(db, nil),
		Hub:           services.NewHub(),
	})
	return &testAPI{t: t, db: db, router: router, qr: qr}
}

type testUser struct {
	models.User
	token string
}

func (a *testAPI) user(name string, role models.UserRole) testUser {
	a.t.Helper()
	u := models.User{
		Username:     name,
		Email:        name + "@example.com",
		Password:     "secret123",
		Role:         role,
		PhoneNumber:  "0900000000",
		IDCardNumber: "ID-" + name,
	}
	require.NoError(a.t, u.HashPassword())
	require.NoError(a.t, a.db.Create(&u).Error)

	token, err := utils.GenerateToken(&u, testJWTSecret)
	require.NoError(a.t, err)
	return testUser{User: u, token: token}
}

func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// createVehicle lists a vehicle through the API as owner.
func (a *testAPI) createVehicle(owner testUser) uint {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/vehicles", owner.token, gin.H{
		"brand":         "Yamaha",
		"model":         "NVX",
		"license_plate": "43-B1 123.45",
		"year":          2022,
		"daily_price":   25.5,
		"location":      "Hoi An",
		"vehicle_type":  "motorbike",
		"fuel_type":     "fuel",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var v models.Vehicle
	decode(a.t, w, &v)
	return v.ID
}

func (a *testAPI) createBooking(customer testUser, vehicleID uint) bookingBody {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/bookings", customer.token, gin.H{
		"vehicle":         vehicleID,
		"start_date":      "2025-07-01T09:00:00Z",
		"end_date":        "2025-07-03T09:00:00Z",
		"pickup_location": "Hoi An old town",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var b bookingBody
	decode(a.t, w, &b)
	return b
}

type bookingBody struct {
	ID         uint    `json:"id"`
	Status     string  `json:"status"`
	Customer   uint    `json:"customer"`
	Vehicle    uint    `json:"vehicle"`
	TotalPrice float64 `json:"total_price"`
	QRCode     *struct {
		Payload  string `json:"qr_code_data"`
		ImageURL string `json:"qr_code_image_url"`
	} `json:"qr_code"`
	CustomerDetails *struct {
		IDCardNumber string `json:"id_card_number"`
	} `json:"customer_details"`
}

func path(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}
