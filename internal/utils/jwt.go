package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type staffClaims struct {
	StaffID   string `json:"staff_id"`
	StaffName string `json:"staff_name"`
	jwt.RegisteredClaims
}

// GenerateStaffToken creates a signed JWT for a kitchen staff member.
func GenerateStaffToken(secret string, staffID uuid.UUID, name string, ttl time.Duration) (string, error) {
	claims := &staffClaims{
		StaffID:   staffID.String(),
		StaffName: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   staffID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseStaffToken validates the token and returns the embedded staff ID.
func ParseStaffToken(secret, tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &staffClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	if claims, ok := token.Claims.(*staffClaims); ok && token.Valid {
		return uuid.Parse(claims.StaffID)
	}

	return uuid.Nil, jwt.ErrTokenInvalidClaims
}
