package health

import (
	"context"
	"log/slog"
	"time"
)

// Observer receives the result of every check run by a Monitor
type Observer func(name string, err error)

// Monitor periodically runs the registry checks in the background
type Monitor struct {
	registry *Registry
	interval time.Duration
	observe  Observer
}

// NewMonitor creates a monitor; observe may be nil
func NewMonitor(registry *Registry, interval time.Duration, observe Observer) *Monitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if observe == nil {
		observe = func(string, error) {}
	}

	return &Monitor{
		registry: registry,
		interval: interval,
		observe:  observe,
	}
}

// Run checks every dependency until ctx is cancelled
func (m *Monitor) Run(ctx context.Context) error {
	slog.Info("health monitor started", "interval", m.interval)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// Run immediately on start
	m.check(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("health monitor stopped")
			return nil
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

func (m *Monitor) check(ctx context.Context) {
	slog.Debug("running health check cycle")

	for name, err := range m.registry.CheckAll(ctx) {
		if err != nil && ctx.Err() == nil {
			slog.Warn("dependency unhealthy", "check", name, "error", err)
		}
		m.observe(name, err)
	}
}
