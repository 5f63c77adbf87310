package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/movie_catalog/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const TokenTTL = time.Hour

var ErrNoSecret = errors.New("jwt secret is not configured")

type TokenService struct {
	DB        *gorm.DB
	JWTSecret []byte
}

// Issue signs a one-hour credential for the user and stores it on the user
// row. The previous token, if any, is overwritten, so only the most recent
// login stays valid.
func (t *TokenService) Issue(userID uint) (string, error) {
	if len(t.JWTSecret) == 0 {
		return "", ErrNoSecret
	}

	// jti keeps each issued token unique, so a re-login in the same second
	// still supersedes the previous credential.
	now := time.Now()
	claims := jwt.MapClaims{
		"id":  userID,
		"iat": now.Unix(),
		"exp": now.Add(TokenTTL).Unix(),
		"jti": uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.JWTSecret)
	if err != nil {
		return "", fmt.Errorf("cannot sign token: %w", err)
	}

	if err := t.DB.Model(&models.User{}).Where("id = ?", userID).Update("token", signed).Error; err != nil {
		return "", fmt.Errorf("cannot store token: %w", err)
	}

	return signed, nil
}

// Verify checks the signature and expiry of a raw token and returns the user
// id from its claims.
func Verify(rawToken string, secret []byte) (uint, error) {
	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signature method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("cannot parse claims")
	}

	id, ok := claims["id"].(float64)
	if !ok {
		return 0, errors.New("token has no user id")
	}

	return uint(id), nil
}
