package logger

import "os"

// Log levels accepted by Config.Level.
const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config controls logger construction.
type Config struct {
	// Level is the minimum level that will be emitted ("debug", "info",
	// "warning", "error"). Anything else falls back to "info".
	Level string

	// ServiceName is attached to every log entry as the "service" field.
	ServiceName string
}

// NewConfig reads the logger configuration from environment variables.
func NewConfig() Config {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = Info
	}

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "inventario"
	}

	return Config{
		Level:       level,
		ServiceName: service,
	}
}
