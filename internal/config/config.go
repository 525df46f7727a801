package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Remote showroom API. An empty base URL disables network activity
	// with a warning instead of failing startup: the page degrades to
	// its loading state.
	APIBaseURL   string
	APIToken     string
	APITokenFile string

	// Car API backend selection (rest against APIBaseURL, or the
	// seeded in-memory fake for local development)
	CarAPIBackend string

	// Edit sessions
	SessionBackend string
	SessionTTL     time.Duration
	RedisAddr      string
	SQLiteDBPath   string
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8082"),

		APIBaseURL:   getEnv("API_BASE_URL", ""),
		APIToken:     getEnv("API_TOKEN", ""),
		APITokenFile: getEnv("API_TOKEN_FILE", ""),

		CarAPIBackend: getEnv("CAR_API_BACKEND", "rest"),

		SessionBackend: getEnv("SESSION_BACKEND", "memory"),
		SessionTTL:     getEnvDuration("SESSION_TTL", 30*time.Minute),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		SQLiteDBPath:   getEnv("SQLITE_DB_PATH", "./data/sessions.db"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate API base URL when set (absence is allowed and handled
	// at runtime with a warning)
	if c.APIBaseURL != "" {
		if parsedURL, err := url.Parse(c.APIBaseURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid API base URL '%s': %v", c.APIBaseURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid API base URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
	}

	// Validate car API backend
	validCarBackends := []string{"rest", "memory"}
	isValidCarBackend := false
	for _, backend := range validCarBackends {
		if c.CarAPIBackend == backend {
			isValidCarBackend = true
			break
		}
	}
	if !isValidCarBackend {
		errors = append(errors, fmt.Sprintf("invalid car API backend '%s': must be one of %v", c.CarAPIBackend, validCarBackends))
	}

	// Validate token file if provided
	if c.APITokenFile != "" {
		if _, err := os.Stat(c.APITokenFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("API token file does not exist: %s", c.APITokenFile))
		}
	}

	// Validate session backend
	validBackends := []string{"memory", "redis", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.SessionBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid session backend '%s': must be one of %v", c.SessionBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.SessionBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite session backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate redis address if backend is redis
	if c.SessionBackend == "redis" && c.RedisAddr == "" {
		errors = append(errors, "redis address cannot be empty when using redis session backend")
	}

	// Validate session TTL
	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	} else if c.SessionTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at most 24 hours", c.SessionTTL))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
