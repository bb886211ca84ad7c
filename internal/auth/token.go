package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/retailmart/retailmart/internal/models"
)

// token lifetime
const tokenDuration = 24 * time.Hour

var ErrInvalidToken = errors.New("token is invalid")

type tokenClaims struct {
	UserID  uint64          `json:"user_id"`
	Role    models.UserRole `json:"role"`
	IsStaff bool            `json:"is_staff"`
	jwt.RegisteredClaims
}

// AuthToken issues and verifies signed bearer tokens
type AuthToken struct {
	key []byte
}

// NewAuthToken creates new AuthToken instance with signing key
func NewAuthToken(key []byte) *AuthToken {
	return &AuthToken{key: key}
}

// CreateToken creates signed token for user with 1-day expiry
func (at *AuthToken) CreateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		UserID:  user.ID,
		Role:    user.Role,
		IsStaff: user.IsStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(at.key)
}

// VerifyToken parses and validates signed token, returns its payload
func (at *AuthToken) VerifyToken(tokenString string) (*models.TokenPayload, error) {
	claims := tokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return at.key, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	tokenID, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &models.TokenPayload{
		ID:      tokenID,
		UserID:  claims.UserID,
		Role:    claims.Role,
		IsStaff: claims.IsStaff,
	}, nil
}
