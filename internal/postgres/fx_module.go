package postgres

import (
	"context"
	"sync"

	"go.uber.org/fx"
)

// FXModule provides the Postgres client and registers its lifecycle hooks:
// connection monitoring and reconnection on start, graceful shutdown on stop.
var FXModule = fx.Module("postgres",
	fx.Provide(NewPostgresClientWithDI),
	fx.Invoke(RegisterPostgresLifecycle),
)

// PostgresParams groups the dependencies needed to create the client.
type PostgresParams struct {
	fx.In

	Config Config
}

// NewPostgresClientWithDI creates the Postgres client for the fx container.
func NewPostgresClientWithDI(params PostgresParams) (*Postgres, error) {
	return NewPostgres(params.Config)
}

// PostgresLifeCycleParams groups the dependencies for lifecycle management.
type PostgresLifeCycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Postgres  *Postgres
}

// RegisterPostgresLifecycle starts the monitor/retry goroutines on
// application start and shuts the client down on stop.
func RegisterPostgresLifecycle(params PostgresLifeCycleParams) {
	wg := &sync.WaitGroup{}
	monitorCtx, cancelMonitor := context.WithCancel(context.Background())

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			wg.Add(1)
			go func() {
				defer wg.Done()
				params.Postgres.MonitorConnection(monitorCtx)
			}()

			wg.Add(1)
			go func() {
				defer wg.Done()
				params.Postgres.RetryConnection(monitorCtx)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancelMonitor()
			err := params.Postgres.GracefulShutdown()
			wg.Wait()
			return err
		},
	})
}
