package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const managerRole = "manager"

var ErrInvalidToken = errors.New("invalid or expired token")

type ManagerClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateManagerToken menerbitkan token sesi manager yang ditandatangani dengan secret manager.
func GenerateManagerToken(secret []byte, ttl time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().Add(ttl)
	claims := &ManagerClaims{
		Role: managerRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "FoodOrderApp",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func ParseManagerToken(secret []byte, tokenString string) (*ManagerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ManagerClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*ManagerClaims)
	if !ok || claims.Role != managerRole {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
