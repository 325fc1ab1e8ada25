// Package config reads process settings from the environment, with an optional .env file.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"redconnect/internal/domain/chat"
)

// Defaults
const (
	DefaultAddr          = ":8080"
	DefaultAPIURL        = "http://127.0.0.1:8000"
	DefaultDBPath        = "redconnect.db"
	DefaultResendFrom    = "Red Connect <noreply@redconnect.app>"
	DefaultSlowRequestMs = 200
	DefaultSlowQueryMs   = 50
	EnvProduction        = "production"
	secretLen            = 32
)

// Config errors
var (
	ErrBadSecret      = errors.New("REDCONNECT_SECRET must be 64 hex characters (32 bytes)")
	ErrSecretRequired = errors.New("REDCONNECT_SECRET is required in production")
)

// Config holds everything the server needs at startup.
type Config struct {
	Addr         string
	APIURL       string
	DBPath       string
	Env          string
	Secret       []byte
	SecretIsTemp bool // true when Secret was generated for this process only
	ResendKey    string
	ResendFrom   string
	SupportEmail string
	ChatDelay    time.Duration
	SlowRequest  time.Duration
	SlowQuery    time.Duration
}

// IsProduction reports whether the production environment is selected.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load reads .env (if present) and then the process environment.
// PRE: none
// POST: Secret is always 32 bytes; outside production it may be random
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:         envOrDefault("REDCONNECT_ADDR", DefaultAddr),
		APIURL:       envOrDefault("REDCONNECT_API_URL", DefaultAPIURL),
		DBPath:       envOrDefault("REDCONNECT_DB", DefaultDBPath),
		Env:          os.Getenv("REDCONNECT_ENV"),
		ResendKey:    os.Getenv("REDCONNECT_RESEND_KEY"),
		ResendFrom:   envOrDefault("REDCONNECT_RESEND_FROM", DefaultResendFrom),
		SupportEmail: os.Getenv("REDCONNECT_SUPPORT_EMAIL"),
		ChatDelay:    envDuration("REDCONNECT_CHAT_DELAY", chat.DefaultDelay),
		SlowRequest:  envMillis("REDCONNECT_SLOW_REQUEST_MS", DefaultSlowRequestMs),
		SlowQuery:    envMillis("REDCONNECT_SLOW_QUERY_MS", DefaultSlowQueryMs),
	}

	secret, temp, err := loadSecret(os.Getenv("REDCONNECT_SECRET"), cfg.IsProduction())
	if err != nil {
		return Config{}, err
	}
	cfg.Secret = secret
	cfg.SecretIsTemp = temp
	return cfg, nil
}

// loadSecret decodes the app secret, generating a throwaway one outside production.
func loadSecret(keyHex string, production bool) ([]byte, bool, error) {
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != secretLen {
			return nil, false, ErrBadSecret
		}
		return key, false, nil
	}
	if production {
		return nil, false, ErrSecretRequired
	}
	key := make([]byte, secretLen)
	if _, err := rand.Read(key); err != nil {
		return nil, false, fmt.Errorf("generate secret: %w", err)
	}
	return key, true, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envDuration parses a Go duration ("1.5s"). Invalid or negative values fall back.
func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// envMillis parses a positive integer number of milliseconds.
func envMillis(key string, fallbackMs int) time.Duration {
	ms := fallbackMs
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ms = n
		}
	}
	return time.Duration(ms) * time.Millisecond
}
