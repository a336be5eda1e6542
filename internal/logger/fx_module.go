package logger

import (
	"context"

	"go.uber.org/fx"
)

// FXModule wires the logger into an fx application.
//
// A logger.Config must be available in the dependency container.
var FXModule = fx.Module("logger",
	fx.Provide(
		NewLoggerClient,
	),
	fx.Invoke(RegisterLoggerLifecycle),
)

// RegisterLoggerLifecycle flushes buffered log entries on shutdown.
func RegisterLoggerLifecycle(lc fx.Lifecycle, client *Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// Sync can fail on stderr; that is not a shutdown error.
			_ = client.Zap.Sync()
			return nil
		},
	})
}
