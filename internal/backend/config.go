package backend

import (
	"fmt"
	"time"

	"showroom/internal/config"
)

// Config holds what the factory needs to build a session store.
type Config struct {
	Type Type

	// memory / redis
	SessionTTL time.Duration

	// redis
	RedisAddr string

	// sqlite
	SQLiteDBPath string
}

// FromAppConfig converts the application config to factory config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	t := Type(appConfig.SessionBackend)
	if !t.IsValid() {
		return Config{}, fmt.Errorf("invalid session backend in config: %s", appConfig.SessionBackend)
	}

	return Config{
		Type:         t,
		SessionTTL:   appConfig.SessionTTL,
		RedisAddr:    appConfig.RedisAddr,
		SQLiteDBPath: appConfig.SQLiteDBPath,
	}, nil
}

// Validate checks per-backend requirements.
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid session backend: %s", c.Type)
	}

	switch c.Type {
	case RedisBackend:
		if c.RedisAddr == "" {
			return fmt.Errorf("redis address is required for redis session backend")
		}
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite session backend")
		}
	}

	return nil
}
