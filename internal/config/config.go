package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type AppConfig struct {
	Env      string
	HTTPAddr string

	// Redis session store
	RedisAddr string
	RedisPass string

	// Identity service
	IdentityServiceURL string
	OAuthClientID      string

	// Session cookie/store
	SessionSecret string
	SessionTTL    time.Duration
}

// Load loads environment variables into AppConfig. Development gets
// loopback fallbacks; production refuses to start without an explicit
// identity service URL and session secret.
func Load() (AppConfig, error) {
	cfg := AppConfig{
		Env:       getEnv("ENV", "development"),
		HTTPAddr:  getEnv("HTTP_ADDR", ":3000"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass: getEnv("REDIS_PASS", ""),

		IdentityServiceURL: os.Getenv("IDENTITY_SERVICE_URL"),
		OAuthClientID:      getEnv("OAUTH_CLIENT_ID", "client_spa_development"),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionTTL:    getEnvDuration("SESSION_TTL", 30*24*time.Hour),
	}

	if cfg.IsProduction() {
		if cfg.IdentityServiceURL == "" {
			return AppConfig{}, fmt.Errorf("IDENTITY_SERVICE_URL must be set in production")
		}
		if cfg.SessionSecret == "" {
			return AppConfig{}, fmt.Errorf("SESSION_SECRET must be set in production")
		}
	}

	if cfg.IdentityServiceURL == "" {
		cfg.IdentityServiceURL = "http://localhost:5125"
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = "development-secret-change-in-production"
	}
	cfg.IdentityServiceURL = strings.TrimRight(cfg.IdentityServiceURL, "/")

	return cfg, nil
}

func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
