package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"marketplace-backend/models"
)

// GenerateToken mints the bearer token carrying the user's id and role.
func GenerateToken(user *models.User, secret string) (string, error) {
	claims := jwt.MapClaims{
		"id":   user.ID.Hex(),
		"role": string(user.Role),
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
