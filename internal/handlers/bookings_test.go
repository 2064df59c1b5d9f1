package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/chachabrian/sewo-backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingLifecycle(t *testing.T) {
	api := newTestAPI(t)
	customer := api.user("carla", models.RoleCustomer)
	owner := api.user("omar", models.RolePartner)
	stranger := api.user("sam", models.RoleCustomer)
	vehicleID := api.createVehicle(owner)

	w := api.do(http.MethodPost, "/api/bookings", owner.token, gin.H{
		"vehicle": vehicleID, "start_date": "2025-07-01T09:00:00Z", "end_date": "2025-07-02T09:00:00Z",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodPost, "/api/bookings", customer.token, gin.H{
		"vehicle": vehicleID, "start_date": "2025-07-02T09:00:00Z", "end_date": "2025-07-01T09:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	booking := api.createBooking(customer, vehicleID)
	assert.Equal(t, "pending", booking.Status)
	assert.Equal(t, customer.ID, booking.Customer)
	assert.InDelta(t, 51.0, booking.TotalPrice, 0.001)
	require.NotNil(t, booking.QRCode)
	assert.True(t, strings.HasPrefix(booking.QRCode.ImageURL, "data:image/png;base64,"))

	changeURL := path("/api/bookings/%d/change_status", booking.ID)

	w = api.do(http.MethodPost, changeURL, owner.token, gin.H{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated bookingBody
	decode(t, w, &updated)
	assert.Equal(t, "confirmed", updated.Status)
	require.NotNil(t, updated.CustomerDetails)
	assert.Empty(t, updated.CustomerDetails.IDCardNumber)

	w = api.do(http.MethodPost, changeURL, owner.token, gin.H{"status": "confirmed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no_change")

	w = api.do(http.MethodPost, changeURL, customer.token, gin.H{"status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_status")

	w = api.do(http.MethodPost, changeURL, stranger.token, gin.H{"status": "cancelled"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodPost, path("/api/bookings/%d/change_status", 9999), owner.token, gin.H{"status": "cancelled"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodGet, path("/api/bookings/%d/logs", booking.ID), customer.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var logs []struct {
		PreviousStatus *string `json:"previous_status"`
		NewStatus      string  `json:"new_status"`
		Description    string  `json:"description"`
	}
	decode(t, w, &logs)
	require.Len(t, logs, 2)
	assert.Nil(t, logs[0].PreviousStatus)
	assert.Equal(t, "Booking created", logs[0].Description)
	require.NotNil(t, logs[1].PreviousStatus)
	assert.Equal(t, "pending", *logs[1].PreviousStatus)
	assert.Equal(t, "Status changed from pending to confirmed", logs[1].Description)

	w = api.do(http.MethodGet, path("/api/bookings/%d/logs", booking.ID), stranger.token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodGet, path("/api/bookings/%d", booking.ID), customer.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var own bookingBody
	decode(t, w, &own)
	require.NotNil(t, own.CustomerDetails)
	assert.Equal(t, "ID-carla", own.CustomerDetails.IDCardNumber)

	w = api.do(http.MethodGet, path("/api/bookings/%d", booking.ID), stranger.token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListBookingsStatusFilter(t *testing.T) {
	api := newTestAPI(t)
	customer := api.user("carla", models.RoleCustomer)
	owner := api.user("omar", models.RolePartner)
	vehicleID := api.createVehicle(owner)

	first := api.createBooking(customer, vehicleID)
	api.createBooking(customer, vehicleID)
	w := api.do(http.MethodPost, path("/api/bookings/%d/change_status", first.ID), customer.token, gin.H{"status": "cancelled"})
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodGet, "/api/bookings?status=bogus", owner.token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var list []bookingBody
	w = api.do(http.MethodGet, "/api/bookings?status=cancelled", owner.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)

	w = api.do(http.MethodGet, "/api/bookings", customer.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	assert.Len(t, list, 2)
}

func TestQRCodeVerify(t *testing.T) {
	api := newTestAPI(t)
	customer := api.user("carla", models.RoleCustomer)
	owner := api.user("omar", models.RolePartner)
	stranger := api.user("sam", models.RoleCustomer)
	booking := api.createBooking(customer, api.createVehicle(owner))

	w := api.do(http.MethodGet, path("/api/bookings/%d/qrcode", booking.ID), customer.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var qr struct {
		Payload   string `json:"qr_code_data"`
		IsScanned bool   `json:"is_scanned"`
	}
	decode(t, w, &qr)
	assert.Equal(t, booking.QRCode.Payload, qr.Payload)
	assert.False(t, qr.IsScanned)

	w = api.do(http.MethodGet, path("/api/bookings/%d/qrcode", booking.ID), stranger.token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	tampered := qr.Payload[:len(qr.Payload)-4] + "0000"
	if tampered == qr.Payload {
		tampered = qr.Payload[:len(qr.Payload)-4] + "1111"
	}

	upper := []byte(qr.Payload)
	for i := strings.LastIndexByte(qr.Payload, '|') + 1; i < len(upper); i++ {
		if upper[i] >= 'a' && upper[i] <= 'f' {
			upper[i] -= 'a' - 'A'
			break
		}
	}

	tests := []struct {
		name     string
		token    string
		payload  string
		wantCode int
		wantBody string
	}{
		{"malformed", owner.token, "not-a-voucher", http.StatusBadRequest, "malformed_payload"},
		{"tampered", owner.token, tampered, http.StatusBadRequest, "signature_mismatch"},
		{"upper case signature", owner.token, string(upper), http.StatusBadRequest, "signature_mismatch"},
		{"missing payload", owner.token, "", http.StatusBadRequest, "invalid_input"},
		{"customer cannot scan", customer.token, qr.Payload, http.StatusForbidden, "forbidden"},
		{"stranger cannot scan", stranger.token, qr.Payload, http.StatusForbidden, "forbidden"},
		{"owner scans", owner.token, qr.Payload, http.StatusOK, `"status":"success"`},
		{"second scan", owner.token, qr.Payload, http.StatusConflict, "already_scanned"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(http.MethodPost, "/api/qrcodes/verify", tt.token, gin.H{"payload": tt.payload})
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestPaymentsAndReviews(t *testing.T) {
	api := newTestAPI(t)
	customer := api.user("carla", models.RoleCustomer)
	owner := api.user("omar", models.RolePartner)
	stranger := api.user("sam", models.RoleCustomer)
	vehicleID := api.createVehicle(owner)
	booking := api.createBooking(customer, vehicleID)

	w := api.do(http.MethodPost, "/api/payments", stranger.token, gin.H{
		"booking": booking.ID, "payment_gateway_id": "pi_1", "amount": 51,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodPost, "/api/payments", customer.token, gin.H{
		"booking": booking.ID, "payment_gateway_id": "pi_1", "amount": 51, "payment_method": "card",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var payment models.Payment
	decode(t, w, &payment)
	assert.Equal(t, models.PaymentStatusPending, payment.PaymentStatus)

	statusURL := path("/api/payments/%d/status", payment.ID)
	w = api.do(http.MethodPatch, statusURL, owner.token, gin.H{"payment_status": "refunded"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = api.do(http.MethodPatch, statusURL, owner.token, gin.H{"payment_status": "paid"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"payment_status":"paid"`)

	w = api.do(http.MethodGet, path("/api/payments/%d", payment.ID), stranger.token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = api.do(http.MethodGet, path("/api/bookings/%d/payments", booking.ID), owner.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var payments []models.Payment
	decode(t, w, &payments)
	assert.Len(t, payments, 1)

	w = api.do(http.MethodPost, "/api/reviews", customer.token, gin.H{"booking": booking.ID, "rating": 6})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = api.do(http.MethodPost, "/api/reviews", owner.token, gin.H{"booking": booking.ID, "rating": 5})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = api.do(http.MethodPost, "/api/reviews", customer.token, gin.H{"booking": booking.ID, "rating": 4, "comment": "Clean bike"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(http.MethodGet, path("/api/vehicles/%d/reviews", vehicleID), stranger.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var reviews []models.Review
	decode(t, w, &reviews)
	require.Len(t, reviews, 1)
	assert.Equal(t, 4, reviews[0].Rating)
}
