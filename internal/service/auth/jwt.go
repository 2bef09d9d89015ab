package auth

import (
	"errors"
	"fmt"
	"time"

	"bookstore/internal/app_errors"
	"bookstore/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

var signingMethod = jwt.SigningMethodHS256

// JWTManager mints and verifies the short-lived signed access tokens.
// It is pure: validity depends only on the token, the secret and the
// wall clock, there is no server-side state.
type JWTManager struct {
	secretKey []byte
	accessTTL time.Duration
}

func NewJWTManager(secretKey string, accessTTL time.Duration) *JWTManager {
	return &JWTManager{
		secretKey: []byte(secretKey),
		accessTTL: accessTTL,
	}
}

func (j *JWTManager) Generate(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(signingMethod, jwt.RegisteredClaims{
		Subject:   user.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.accessTTL)),
	})

	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("access token signing failed: %w", err)
	}
	return signed, nil
}

// ExtractUsername verifies the signature and returns the subject claim.
// Expiry and signature failures are distinct kinds so the boundary can
// answer differently for each.
func (j *JWTManager) ExtractUsername(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != signingMethod {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", app_errors.ErrAccessTokenExpired
		}
		return "", app_errors.ErrTokenSignature
	}
	return claims.Subject, nil
}

// IsTokenValid reports whether the token belongs to user and has not
// expired. The signature is verified by the extraction.
func (j *JWTManager) IsTokenValid(tokenStr string, user *models.User) bool {
	username, err := j.ExtractUsername(tokenStr)
	return err == nil && username == user.Username
}
