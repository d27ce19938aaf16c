package interfaces

import "widget-gateway/internal/models"

//go:generate mockgen -package=mock -source=token_validator.go -destination=mock/token_validator.go

// TokenValidator verifies a bearer token and derives the caller identity
type TokenValidator interface {
	Validate(token string) (models.Identity, error)
}
