package postgres

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config contains everything needed to open and maintain the
// PostgreSQL connection.
type Config struct {
	Connection        Connection
	ConnectionDetails ConnectionDetails
}

// Connection holds the basic connection parameters.
type Connection struct {
	Host     string
	Port     string
	User     string
	Password string
	DbName   string
	SSLMode  string
}

// ConnectionDetails holds connection pool tuning. Zero values fall back to
// package defaults in setup.
type ConnectionDetails struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewConfig reads the database configuration from environment variables,
// falling back to the development defaults of the inventory stack.
func NewConfig() Config {
	return Config{
		Connection: Connection{
			Host:     envOr("DB_HOST", "localhost"),
			Port:     envOr("DB_PORT", "5432"),
			User:     envOr("DB_USER", "inventory_user"),
			Password: envOr("DB_PASSWORD", "changeme_secure_password"),
			DbName:   envOr("DB_NAME", "inventario"),
			SSLMode:  envOr("DB_SSLMODE", "disable"),
		},
		ConnectionDetails: ConnectionDetails{
			MaxOpenConns: envIntOr("DB_MAX_OPEN_CONNS", 0),
			MaxIdleConns: envIntOr("DB_MAX_IDLE_CONNS", 0),
		},
	}
}

// Validate ensures the required connection fields are present.
func (c Config) Validate() error {
	if c.Connection.Host == "" {
		return fmt.Errorf("postgres: missing DB_HOST")
	}
	if c.Connection.DbName == "" {
		return fmt.Errorf("postgres: missing DB_NAME")
	}
	if c.Connection.User == "" {
		return fmt.Errorf("postgres: missing DB_USER")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
