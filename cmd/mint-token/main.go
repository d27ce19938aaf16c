package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"widget-gateway/internal/auth"
	"widget-gateway/internal/config"
)

type tokenOutput struct {
	Token     string    `json:"token"`
	Subject   string    `json:"subject"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// mint-token signs a bearer token for local development and smoke tests.
// The signing secret is read from JWT_SECRET.
func main() {
	subjectFlag := flag.String("subject", "", "caller UUID (random when empty)")
	email := flag.String("email", "", "display email carried in the token")
	expiry := flag.Duration("expiry", config.Default().GetTokenExpiry(), "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatalf("JWT_SECRET must be set")
	}
	if *email == "" {
		log.Fatalf("-email is required")
	}

	subject := uuid.New()
	if *subjectFlag != "" {
		parsed, err := uuid.Parse(*subjectFlag)
		if err != nil {
			log.Fatalf("invalid -subject: %v", err)
		}
		subject = parsed
	}

	token, expiresAt, err := auth.Generate(secret, subject, *email, *expiry)
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(tokenOutput{
		Token:     token,
		Subject:   subject.String(),
		Email:     *email,
		ExpiresAt: expiresAt.UTC(),
	}); err != nil {
		log.Fatalf("failed to write token: %v", err)
	}
}
