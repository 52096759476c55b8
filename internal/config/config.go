package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Store driver names.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Storage
	StoreDriver string // "memory" or "postgres"
	DatabaseURL string
	RedisURL    string // optional: backs the session store when set

	// Session
	SessionSecret string // Used for signing cookies (min 32 chars)

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Background jobs
	LinkCheckInterval time.Duration // 0 disables the item link checker

	// Family
	FamilyNames  []string          // Allowed display names; identity is one of these
	FamilyEmails map[string]string // Optional member emails from the YAML roster
}

// Load reads configuration from environment variables with sensible
// defaults. The family roster is required: either FAMILY_NAMES or a YAML
// roster file; the service is for a fixed group.
func Load() (*Config, error) {
	cfg := &Config{
		Env:           getEnv("ENV", "development"),
		ServerAddr:    getEnv("SERVER_ADDR", ":3000"),
		BaseURL:       getEnv("BASE_URL", "http://localhost:3000"),
		StoreDriver:   getEnv("STORE_DRIVER", DriverMemory),
		DatabaseURL:   getEnv("DATABASE_URL", "postgres://localhost:5432/giftlist?sslmode=disable"),
		RedisURL:      getEnv("REDIS_URL", ""),
		SessionSecret: getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),
		CORSOrigins:   getEnv("CORS_ORIGINS", ""),
	}

	interval, err := time.ParseDuration(getEnv("LINK_CHECK_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid LINK_CHECK_INTERVAL: %w", err)
	}
	cfg.LinkCheckInterval = interval

	if namesEnv := os.Getenv("FAMILY_NAMES"); namesEnv != "" {
		for _, name := range strings.Split(namesEnv, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				cfg.FamilyNames = append(cfg.FamilyNames, name)
			}
		}
	} else {
		roster, err := LoadFamilyConfig()
		if err != nil {
			return nil, fmt.Errorf("loading family roster: %w", err)
		}
		cfg.FamilyNames = roster.Names()
		cfg.FamilyEmails = roster.Emails()
	}
	if len(cfg.FamilyNames) == 0 {
		return nil, fmt.Errorf("family roster is required: set FAMILY_NAMES or provide a roster file")
	}

	if cfg.StoreDriver != DriverMemory && cfg.StoreDriver != DriverPostgres {
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}
