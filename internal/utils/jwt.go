package utils

import (
	"errors"
	"time"

	"github.com/Baaaki/planogram-backoffice/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrWrongPurpose = errors.New("token issued for another purpose")
)

// TokenPurpose keeps a confirmation or reset link from being used as a
// session token and the other way round.
type TokenPurpose string

const (
	PurposeAccess            TokenPurpose = "access"
	PurposeEmailConfirmation TokenPurpose = "email_confirmation"
	PurposePasswordReset     TokenPurpose = "password_reset"
)

type Claims struct {
	UserID  string       `json:"sub_id"`
	Email   string       `json:"email"`
	Role    models.Role  `json:"role,omitempty"`
	Purpose TokenPurpose `json:"purpose"`
	jwt.RegisteredClaims
}

// GenerateToken issues a session token for user.
func GenerateToken(user *models.User, secretKey string, expiresIn time.Duration) (string, error) {
	return sign(&Claims{
		UserID:  user.ID,
		Email:   user.Email,
		Role:    user.Role,
		Purpose: PurposeAccess,
	}, secretKey, expiresIn)
}

// GeneratePurposeToken issues a single-purpose token carried in an email link.
func GeneratePurposeToken(user *models.User, purpose TokenPurpose, secretKey string, expiresIn time.Duration) (string, error) {
	return sign(&Claims{
		UserID:  user.ID,
		Email:   user.Email,
		Purpose: purpose,
	}, secretKey, expiresIn)
}

func sign(claims *Claims, secretKey string, expiresIn time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.UserID,
		ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secretKey))
}

// ValidateToken checks signature and expiry and requires a session token.
func ValidateToken(tokenString, secretKey string) (*Claims, error) {
	return ValidatePurposeToken(tokenString, secretKey, PurposeAccess)
}

func ValidatePurposeToken(tokenString, secretKey string, purpose TokenPurpose) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// Verify signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return []byte(secretKey), nil
		},
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != purpose {
		return nil, ErrWrongPurpose
	}

	return claims, nil
}
