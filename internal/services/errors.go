package services

import "errors"

var (
	ErrInvalidStatus      = errors.New("invalid booking status")
	ErrNoChange           = errors.New("booking already has this status")
	ErrIllegalTransition  = errors.New("status transition not allowed")
	ErrConflict           = errors.New("booking was modified concurrently")
	ErrForbidden          = errors.New("not a participant of this booking")
	ErrNotFound           = errors.New("not found")
	ErrMalformedPayload   = errors.New("malformed qr code payload")
	ErrSignatureMismatch  = errors.New("qr code signature mismatch")
	ErrAlreadyScanned     = errors.New("qr code already scanned")
	ErrExpired            = errors.New("qr code expired")
	ErrAlreadyIssued      = errors.New("qr code already issued for this booking")
	ErrVehicleUnavailable = errors.New("vehicle is not available")
	ErrInvalidDates       = errors.New("end date must be after start date")
	ErrEmptyMessage       = errors.New("message content is empty")
)
