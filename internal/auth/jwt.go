package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"widget-gateway/internal/apperr"
	"widget-gateway/internal/interfaces"
	"widget-gateway/internal/metrics"
	"widget-gateway/internal/models"
)

// Claims carried by gateway bearer tokens. Subject holds the caller UUID.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Generate signs an HS256 token for subject valid for expiry
func Generate(secret string, subject uuid.UUID, email string, expiry time.Duration) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(expiry)
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.String(),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	return signed, exp, err
}

// Ensure Validator implements interfaces.TokenValidator
var _ interfaces.TokenValidator = (*Validator)(nil)

// Validator verifies HS256 bearer tokens against a shared secret.
// It holds no mutable state.
type Validator struct {
	secret []byte
	parser *jwt.Parser
}

// NewValidator creates a Validator. The secret must not be empty.
func NewValidator(secret string) (*Validator, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &Validator{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}, nil
}

// Validate checks signature, algorithm and expiry and returns the caller identity
func (v *Validator) Validate(tokenString string) (models.Identity, error) {
	var claims Claims
	_, err := v.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			metrics.RecordAuthVerification("expired")
			return models.Identity{}, apperr.Auth("token expired", err)
		}
		metrics.RecordAuthVerification("failed")
		return models.Identity{}, apperr.Auth("invalid token", err)
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		metrics.RecordAuthVerification("failed")
		return models.Identity{}, apperr.Auth("invalid token", fmt.Errorf("subject is not a uuid: %w", err))
	}

	metrics.RecordAuthVerification("success")
	return models.Identity{Subject: subject, Email: claims.Email}, nil
}
