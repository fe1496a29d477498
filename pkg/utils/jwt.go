package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

const sessionTokenIssuer = "storefront-service"

func CreateSessionToken(sessionID string, ttl time.Duration, jwtSecretKey string) (string, error) {
	now := time.Now()
	claims := jwt.StandardClaims{
		Id:        sessionID,
		Issuer:    sessionTokenIssuer,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(jwtSecretKey))
}

// ParseSessionToken validates the signature and expiry and returns the session id.
func ParseSessionToken(tokenString string, jwtSecretKey string) (string, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(jwtSecretKey), nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid || claims.Id == "" || claims.Issuer != sessionTokenIssuer {
		return "", fmt.Errorf("invalid session token")
	}

	return claims.Id, nil
}
