package utils

import (
	"testing"
	"time"

	"github.com/chachabrian/sewo-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	user := &models.User{ID: 42, Email: "ana@example.com", Role: models.RolePartner}

	token, err := GenerateToken(user, "secret")
	require.NoError(t, err)

	identity, err := ValidateToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), identity.UserID)
	assert.Equal(t, models.RolePartner, identity.Role)
}

func TestValidateToken_Rejects(t *testing.T) {
	user := &models.User{ID: 7, Role: models.RoleCustomer}
	good, err := GenerateToken(user, "secret")
	require.NoError(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  7,
		"exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", good, "other"},
		{"expired", expired, "secret"},
		{"missing id", noID, "secret"},
		{"garbage", "not.a.token", "secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateToken(tt.token, tt.secret)
			assert.Error(t, err)
		})
	}
}
