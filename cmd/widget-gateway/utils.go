package main

import (
	"errors"
	"os"
	"strings"

	"go.uber.org/zap"
)

// GetKeyDBURL returns KeyDB URL with the following priority:
// 1. KEYDB_URL environment variable
// 2. GATEWAY_KEYDB_URL_FILE file content
// 3. Default value
func GetKeyDBURL(logger *zap.Logger) string {
	if keydbURL := readSecret(logger, "KEYDB_URL", "GATEWAY_KEYDB_URL_FILE", "/app/.keydb-url"); keydbURL != "" {
		return keydbURL
	}

	logger.Debug("Using default KeyDB URL")
	return "redis://keydb:6379"
}

// GetJWTSecret returns the token signing secret from JWT_SECRET or the file
// named by GATEWAY_JWT_SECRET_FILE. There is no default.
func GetJWTSecret(logger *zap.Logger) (string, error) {
	secret := readSecret(logger, "JWT_SECRET", "GATEWAY_JWT_SECRET_FILE", "/app/.jwt-secret")
	if secret == "" {
		return "", errors.New("JWT_SECRET is not set")
	}
	return secret, nil
}

// APIKeys holds optional upstream credentials
type APIKeys struct {
	GitHubToken string
	OpenWeather string
	NewsAPI     string
}

// GetAPIKeys reads upstream credentials from the environment
func GetAPIKeys(logger *zap.Logger) APIKeys {
	keys := APIKeys{
		GitHubToken: os.Getenv("GITHUB_API_TOKEN"),
		OpenWeather: os.Getenv("OPENWEATHER_API_KEY"),
		NewsAPI:     os.Getenv("NEWSAPI_API_KEY"),
	}

	if keys.OpenWeather == "" {
		logger.Warn("OPENWEATHER_API_KEY not set, weather widget will fail")
	}
	if keys.NewsAPI == "" {
		logger.Warn("NEWSAPI_API_KEY not set, headlines widget will fail")
	}
	return keys
}

// readSecret returns the value of envName, falling back to the content of
// the file named by fileEnvName (or defaultFile). Empty when neither is set.
func readSecret(logger *zap.Logger, envName, fileEnvName, defaultFile string) string {
	// Priority 1: Environment variable
	if value := os.Getenv(envName); value != "" {
		logger.Debug("Using value from environment variable", zap.String("variable", envName))
		return value
	}

	// Priority 2: Configurable file path
	path := os.Getenv(fileEnvName)
	if path == "" {
		path = defaultFile
	}

	if content, err := os.ReadFile(path); err == nil {
		value := strings.TrimSpace(string(content))
		if len(value) > 0 {
			logger.Debug("Using value from file", zap.String("file", path))
			return value
		}
	} else {
		logger.Debug("Secret file not found", zap.String("file", path))
	}

	return ""
}
