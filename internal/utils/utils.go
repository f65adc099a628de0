package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wheeldeal/wheeldeal-backend/internal/config"
)

// GenerateJWT generates a signed token for a merchant staff account
func GenerateJWT(staffID, merchantID, role string, cfg *config.Config) (string, error) {
	claims := jwt.MapClaims{
		"sub":        staffID,
		"merchantId": merchantID,
		"role":       role,
		"exp":        time.Now().Add(time.Second * time.Duration(cfg.JWT.ExpiresIn)).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}

// ValidateJWT validates a staff token and returns its claims
func ValidateJWT(tokenString string, cfg *config.Config) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// LastNDayKeys returns today and the n-1 preceding day keys, oldest first
func LastNDayKeys(n int, now time.Time, loc *time.Location) []string {
	keys := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		keys = append(keys, now.In(loc).AddDate(0, 0, -i).Format("2006-01-02"))
	}
	return keys
}
