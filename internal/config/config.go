package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds the runtime knobs for the auth subsystem. DATABASE_URL is read
// directly by the db package; everything else lives here so it can be injected
// explicitly instead of read from ambient globals at request time.
type Config struct {
	Port          string        // HTTP port to listen on
	SessionSecret string        // HMAC key for signing session tokens
	SessionTTL    time.Duration // lifetime of an issued session token
	BcryptCost    int           // work factor for password digests
}

// Load reads configuration from environment variables. SESSION_SECRET is
// required; the rest fall back to sane defaults.
func Load() Config {
	return Config{
		Port:          getEnv("PORT", "8000"),
		SessionSecret: must("SESSION_SECRET"),
		SessionTTL:    time.Duration(getInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		BcryptCost:    getInt("BCRYPT_COST", bcrypt.DefaultCost),
	}
}

func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
