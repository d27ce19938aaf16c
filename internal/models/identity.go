package models

import "github.com/google/uuid"

// Identity is the caller derived from a verified bearer token.
// It lives only for the duration of one request.
type Identity struct {
	Subject uuid.UUID
	Email   string
}
