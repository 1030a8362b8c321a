package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const healthcheckInterval = 15 * time.Second

// Probe reports whether a model role is currently usable.
type Probe func(ctx context.Context) bool

// Monitor runs probe on a fixed interval and stores the outcome in
// healthy until ctx is cancelled. Run it in its own goroutine.
func Monitor(ctx context.Context, name string, probe Probe, healthy *atomic.Bool) {
	ticker := time.NewTicker(healthcheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			isHealthy := probe(ctx)
			healthy.Store(isHealthy)
			if !isHealthy {
				slog.Warn("[HealthCheck] Component is unhealthy",
					slog.String("component", name))
			}
		}
	}
}
