package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Environment names recognized by the application.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type (
	Config struct {
		HTTP
		Database
		Global
		Auth
		Cleanup
		CORS
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Global struct {
		Environment              string
		ShutdownTimeoutInSeconds int
	}
	Auth struct {
		SessionLifetime time.Duration // session expiry window; renewal threshold is half of this
		BcryptCost      int
		CSRFSecret      string // hex or raw bytes; CSRF protection disabled when empty
	}
	Cleanup struct {
		Enabled  bool
		Schedule string // Cron format: "0 * * * *" = hourly
	}
	CORS struct {
		AllowOrigins []string // empty = allow all origins without credentials
	}
)

// IsProduction reports whether the application runs in production mode.
// Production gates the cookie Secure attribute and generic 500 bodies.
func (g Global) IsProduction() bool {
	return g.Environment == EnvProduction
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("environment", EnvDevelopment)
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Auth defaults
	v.SetDefault("auth_session_lifetime", "24h") // renewal threshold is 12h
	v.SetDefault("auth_bcrypt_cost", 12)         // bcrypt cost factor
	v.SetDefault("auth_csrf_secret", "")         // CSRF disabled if empty

	// Session cleanup defaults
	v.SetDefault("cleanup_enabled", true)
	v.SetDefault("cleanup_schedule", "0 * * * *") // Hourly at :00

	// CORS defaults
	v.SetDefault("cors_allow_origins", "")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Global: Global{
			Environment:              v.GetString("ENVIRONMENT"),
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Auth: Auth{
			SessionLifetime: v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:      v.GetInt("AUTH_BCRYPT_COST"),
			CSRFSecret:      v.GetString("AUTH_CSRF_SECRET"),
		},
		Cleanup: Cleanup{
			Enabled:  v.GetBool("CLEANUP_ENABLED"),
			Schedule: v.GetString("CLEANUP_SCHEDULE"),
		},
		CORS: CORS{
			AllowOrigins: splitOrigins(v.GetString("CORS_ALLOW_ORIGINS")),
		},
	}
}

func splitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
