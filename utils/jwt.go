package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"lefri/config"

	"github.com/golang-jwt/jwt/v4"
)

const devSecret = "lefri-dev-secret"

// ErrMissingSecret is returned when JWT_SECRET is unset in production.
var ErrMissingSecret = errors.New("JWT_SECRET is not set")

// secretKey falls back to the dev secret outside production only.
func secretKey() ([]byte, error) {
	if s := config.AppConfig.JWTSecret; s != "" {
		return []byte(s), nil
	}
	if config.IsProduction() {
		return nil, ErrMissingSecret
	}
	return []byte(devSecret), nil
}

// TokenTTL is the lifetime of app tokens.
func TokenTTL() time.Duration {
	if h := config.AppConfig.JWTTTLHours; h > 0 {
		return time.Duration(h) * time.Hour
	}
	return 7 * 24 * time.Hour
}

// GenerateToken creates a signed JWT token with the given subject (the user ID) and email.
func GenerateToken(subject, email string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(duration).Unix(),
	}
	key, err := secretKey()
	if err != nil {
		return "", err
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// HashToken computes a SHA-256 hash of the token string.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	key, err := secretKey()
	if err != nil {
		return nil, err
	}
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	})
}

// ExtractIDFromToken returns the subject of a valid token and its expiry.
func ExtractIDFromToken(tokenString string) (string, time.Time, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return "", time.Time{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", time.Time{}, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", time.Time{}, errors.New("token does not contain a valid 'sub' claim")
	}

	var exp time.Time
	if v, ok := claims["exp"].(float64); ok {
		exp = time.Unix(int64(v), 0)
	}
	return sub, exp, nil
}
