package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/chachabrian/sewo-backend/internal/services"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{services.ErrInvalidStatus, http.StatusBadRequest, "invalid_status"},
	{services.ErrNoChange, http.StatusBadRequest, "no_change"},
	{services.ErrInvalidDates, http.StatusBadRequest, "invalid_dates"},
	{services.ErrEmptyMessage, http.StatusBadRequest, "empty_message"},
	{services.ErrMalformedPayload, http.StatusBadRequest, "malformed_payload"},
	{services.ErrSignatureMismatch, http.StatusBadRequest, "signature_mismatch"},
	{services.ErrForbidden, http.StatusForbidden, "forbidden"},
	{services.ErrNotFound, http.StatusNotFound, "not_found"},
	{services.ErrIllegalTransition, http.StatusConflict, "illegal_transition"},
	{services.ErrConflict, http.StatusConflict, "conflict"},
	{services.ErrAlreadyScanned, http.StatusConflict, "already_scanned"},
	{services.ErrAlreadyIssued, http.StatusConflict, "already_issued"},
	{services.ErrVehicleUnavailable, http.StatusConflict, "vehicle_unavailable"},
	{services.ErrExpired, http.StatusGone, "expired"},
}

// respondError writes the status and reason code of a service error.
func respondError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			c.JSON(m.status, gin.H{"error": m.err.Error(), "code": m.code})
			return
		}
	}

	log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "code": "internal"})
}

// respondBindError reports a request body or query that failed binding.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "invalid_input"})
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name, "code": "invalid_id"})
		return 0, false
	}
	return uint(id), true
}

func requireRole(c *gin.Context, role string) bool {
	if c.GetString("userType") != role {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only " + role + "s can perform this action", "code": "forbidden"})
		return false
	}
	return true
}
