package utils

import (
	"errors"
	"time"

	"github.com/chachabrian/sewo-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 7 * 24 * time.Hour

// Identity is the caller resolved from a bearer token.
type Identity struct {
	UserID uint
	Role   models.UserRole
}

func GenerateToken(user *models.User, secret string) (string, error) {
	claims := jwt.MapClaims{
		"id":       user.ID,
		"email":    user.Email,
		"userType": string(user.Role),
		"exp":      time.Now().Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateToken(tokenString, secret string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	id, ok := claims["id"].(float64)
	if !ok || id <= 0 {
		return nil, errors.New("token has no user id")
	}
	userType, _ := claims["userType"].(string)

	return &Identity{UserID: uint(id), Role: models.UserRole(userType)}, nil
}
