package config

import (
	"crypto/rsa"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Security SecurityConfig
}

type ServerConfig struct {
	Port             string
	Host             string
	Environment      string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	CORSAllowOrigins []string
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessTokenDuration time.Duration
	PrivateKey          *rsa.PrivateKey
	PublicKey           *rsa.PublicKey
	Issuer              string
}

// SecurityConfig holds the tunable request-throttling knobs. Password policy
// and bcrypt cost are fixed in the password service, not configurable.
type SecurityConfig struct {
	RateLimitPerSecond int
	RateLimitBurst     int
}

// Load reads configuration from the environment, falling back to development
// defaults. It fails only when the JWT keypair cannot be established, since
// the server cannot issue or verify tokens without one.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         envString("SERVER_PORT", "8080"),
			Host:         envString("SERVER_HOST", "localhost"),
			Environment:  envString("APP_ENV", "development"),
			ReadTimeout:  envDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: envDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			Host:            envString("DB_HOST", "localhost"),
			Port:            envString("DB_PORT", "5432"),
			User:            envString("DB_USER", "ledger_user"),
			Password:        envString("DB_PASSWORD", "ledger_password"),
			Name:            envString("DB_NAME", "ledger_db"),
			SSLMode:         envString("DB_SSL_MODE", "disable"),
			MaxConnections:  envInt("DB_MAX_CONNECTIONS", 25),
			MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		Security: SecurityConfig{
			RateLimitPerSecond: envInt("RATE_LIMIT_PER_SECOND", 5),
			RateLimitBurst:     envInt("RATE_LIMIT_BURST", 10),
		},
		JWT: JWTConfig{
			AccessTokenDuration: envDuration("JWT_ACCESS_TOKEN_DURATION", 24*time.Hour),
			Issuer:              envString("JWT_ISSUER", "ledger-api"),
		},
	}

	cfg.Server.CORSAllowOrigins = corsAllowOrigins(cfg.IsProduction())

	privateKey, publicKey, err := loadJWTKeys(cfg.IsProduction())
	if err != nil {
		return nil, fmt.Errorf("jwt keys: %w", err)
	}
	cfg.JWT.PrivateKey = privateKey
	cfg.JWT.PublicKey = publicKey

	return cfg, nil
}

// DSN renders the lib/pq keyword connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func (c *Config) IsDevelopment() bool { return c.Server.Environment == "development" }
func (c *Config) IsProduction() bool  { return c.Server.Environment == "production" }
func (c *Config) IsTesting() bool     { return c.Server.Environment == "testing" }

// corsAllowOrigins parses the comma-separated CORS_ALLOW_ORIGINS list. An
// unset list means all origins, which is only acceptable outside production.
func corsAllowOrigins(production bool) []string {
	raw := os.Getenv("CORS_ALLOW_ORIGINS")
	if raw == "" {
		if production {
			slog.Warn("CORS_ALLOW_ORIGINS not set in production, defaulting to all origins")
		}
		return []string{"*"}
	}

	origins := strings.Split(raw, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	slog.Info("CORS allowed origins configured", "origins", origins)
	return origins
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// envInt silently falls back on unparseable values so a typo in an optional
// tuning knob does not take the server down.
func envInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}
