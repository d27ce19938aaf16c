package auth

import (
	"context"
	"strings"

	"widget-gateway/internal/apperr"
	"widget-gateway/internal/models"
)

type identityKey struct{}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", apperr.Auth("missing bearer token", nil)
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", apperr.Auth("malformed authorization header", nil)
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", apperr.Auth("missing bearer token", nil)
	}
	return token, nil
}

// WithIdentity returns a copy of ctx carrying id
func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity stored by WithIdentity
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(models.Identity)
	return id, ok
}
