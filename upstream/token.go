package upstream

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	serviceAccountID = "microservicio-analisis"
	serviceRole      = "admin"
	tokenTTL         = 24 * time.Hour
)

// signServiceToken creates the HS256 token the inventory API expects:
// claims "id" and "rol", 24h expiration.
func signServiceToken(secret string, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"id":  serviceAccountID,
		"rol": serviceRole,
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}
