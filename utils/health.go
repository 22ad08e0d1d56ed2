package utils

import (
	"context"
	"sync"
	"time"
)

// Pinger is any dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Dependencies map[string]bool `json:"dependencies"`
	CheckedAt    time.Time       `json:"checkedAt"`
}

// Ready reports whether every dependency answered the last check.
func (h HealthStatus) Ready() bool {
	if h.CheckedAt.IsZero() {
		return false
	}
	for _, ok := range h.Dependencies {
		if !ok {
			return false
		}
	}
	return true
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// CheckHealth pings every dependency once and stores the snapshot.
func CheckHealth(ctx context.Context, deps map[string]Pinger) HealthStatus {
	status := HealthStatus{Dependencies: make(map[string]bool, len(deps))}
	for name, dep := range deps {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		status.Dependencies[name] = dep.Ping(pingCtx) == nil
		cancel()
	}
	status.CheckedAt = time.Now()

	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// StartHealthMonitor performs periodic health checks and updates in-memory state.
func StartHealthMonitor(ctx context.Context, deps map[string]Pinger, every time.Duration) {
	CheckHealth(ctx, deps)
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				CheckHealth(ctx, deps)
			}
		}
	}()
}
