package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chachabrian/sewo-backend/internal/models"
	log "github.com/sirupsen/logrus"
	"github.com/yeqown/go-qrcode"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	payloadSeparator = "|"
	pngDataURIPrefix = "data:image/png;base64,"
)

// QRService issues and verifies the signed vouchers handed over at vehicle pickup.
type QRService struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
	store  ImageStore
	events *EventBus
	now    func() time.Time
}

// NewQRService builds the voucher service. store may be nil to keep images inline.
func NewQRService(db *gorm.DB, secret string, ttl time.Duration, store ImageStore, events *EventBus) *QRService {
	return &QRService{
		db:     db,
		secret: []byte(secret),
		ttl:    ttl,
		store:  store,
		events: events,
		now:    time.Now,
	}
}

// Sign returns the lowercase hex HMAC-SHA-256 of "bookingID:customerID".
func (s *QRService) Sign(bookingID, customerID uint) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%d:%d", bookingID, customerID)
	return hex.EncodeToString(mac.Sum(nil))
}

// Payload is the text encoded into the voucher image.
func (s *QRService) Payload(bookingID, customerID uint) string {
	return strings.Join([]string{
		strconv.FormatUint(uint64(bookingID), 10),
		strconv.FormatUint(uint64(customerID), 10),
		s.Sign(bookingID, customerID),
	}, payloadSeparator)
}

// ParsePayload splits a scanned payload into its ids and signature. Only the
// shape is checked here; the signature is compared verbatim by Verify.
func ParsePayload(payload string) (bookingID, customerID uint, signature string, err error) {
	parts := strings.Split(strings.TrimSpace(payload), payloadSeparator)
	if len(parts) != 3 {
		return 0, 0, "", ErrMalformedPayload
	}

	b, ok := parseID(parts[0])
	if !ok {
		return 0, 0, "", ErrMalformedPayload
	}
	c, ok := parseID(parts[1])
	if !ok {
		return 0, 0, "", ErrMalformedPayload
	}

	return b, c, parts[2], nil
}

// parseID accepts only the canonical decimal form, so "007" is rejected.
func parseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 || strconv.FormatUint(id, 10) != s {
		return 0, false
	}
	return uint(id), true
}

func renderPNG(payload string) ([]byte, error) {
	qrc, err := qrcode.New(payload, qrcode.WithBuiltinImageEncoder(qrcode.PNG_FORMAT))
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}

	var buf bytes.Buffer
	if err := qrc.SaveTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to render qr code: %w", err)
	}
	return buf.Bytes(), nil
}

// Issue creates the voucher of booking inside tx. A booking gets exactly one voucher.
func (s *QRService) Issue(tx *gorm.DB, booking *models.Booking) (*models.QRCode, error) {
	payload := s.Payload(booking.ID, booking.CustomerID)
	png, err := renderPNG(payload)
	if err != nil {
		return nil, err
	}

	qr := &models.QRCode{
		BookingID: booking.ID,
		Payload:   payload,
		ImageURL:  pngDataURIPrefix + base64.StdEncoding.EncodeToString(png),
	}
	if s.ttl > 0 {
		expires := s.now().Add(s.ttl)
		qr.ExpiresAt = &expires
	}

	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "booking_id"}},
		DoNothing: true,
	}).Create(qr)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to store qr code: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrAlreadyIssued
	}
	return qr, nil
}

// storeImage moves a committed voucher image to object storage. Failures keep the inline image.
func (s *QRService) storeImage(ctx context.Context, qr *models.QRCode) {
	if s.store == nil || qr == nil || !strings.HasPrefix(qr.ImageURL, pngDataURIPrefix) {
		return
	}
	png, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(qr.ImageURL, pngDataURIPrefix))
	if err != nil {
		return
	}

	logger := log.WithField("booking_id", qr.BookingID)
	url, err := s.store.UploadQRImage(ctx, qr.BookingID, png)
	if err != nil {
		logger.WithError(err).Warn("failed to upload qr code image, keeping inline image")
		return
	}
	if err := s.db.WithContext(ctx).Model(&models.QRCode{}).
		Where("id = ?", qr.ID).
		Update("image_url", url).Error; err != nil {
		logger.WithError(err).Warn("failed to save qr code image url")
		return
	}
	qr.ImageURL = url
}

// Get returns the voucher of a booking to one of its participants.
func (s *QRService) Get(ctx context.Context, bookingID, requesterID uint) (*models.QRCode, error) {
	db := s.db.WithContext(ctx)

	booking, err := loadBooking(db, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParticipant(requesterID) {
		return nil, ErrForbidden
	}

	var qr models.QRCode
	if err := db.Where("booking_id = ?", bookingID).First(&qr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load qr code: %w", err)
	}
	return &qr, nil
}

// Verify checks a scanned payload and marks the voucher used. Only the
// vehicle owner may scan, and a voucher can be redeemed once.
func (s *QRService) Verify(ctx context.Context, payload string, scannerID uint) (*models.Booking, *models.User, error) {
	bookingID, customerID, signature, err := ParsePayload(payload)
	if err != nil {
		return nil, nil, err
	}
	if !hmac.Equal([]byte(signature), []byte(s.Sign(bookingID, customerID))) {
		return nil, nil, ErrSignatureMismatch
	}

	db := s.db.WithContext(ctx)

	var qr models.QRCode
	if err := db.Where("booking_id = ?", bookingID).First(&qr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to load qr code: %w", err)
	}

	var booking models.Booking
	if err := db.Preload("Vehicle").Preload("Customer").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to load booking %d: %w", bookingID, err)
	}
	if booking.CustomerID != customerID {
		return nil, nil, ErrNotFound
	}
	if scannerID == 0 || booking.OwnerID() != scannerID {
		return nil, nil, ErrForbidden
	}

	now := s.now()
	if qr.IsScanned {
		return nil, nil, ErrAlreadyScanned
	}
	if qr.IsExpired(now) {
		return nil, nil, ErrExpired
	}

	res := db.Model(&models.QRCode{}).
		Where("id = ? AND is_scanned = ?", qr.ID, false).
		Updates(map[string]interface{}{
			"is_scanned":    true,
			"scanned_at":    now,
			"scanned_by_id": scannerID,
		})
	if res.Error != nil {
		return nil, nil, fmt.Errorf("failed to mark qr code scanned: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil, ErrAlreadyScanned
	}

	log.WithFields(log.Fields{
		"booking_id": bookingID,
		"scanned_by": scannerID,
	}).Info("qr code verified")

	s.events.Publish(ctx, ChannelBookings, booking.Participants(), EventQRCodeScanned, map[string]interface{}{
		"booking_id": bookingID,
		"scanned_at": now,
	})

	return &booking, booking.Customer, nil
}
