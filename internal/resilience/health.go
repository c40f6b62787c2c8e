// Package resilience provides health checking for the long-running server.
package resilience

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"
)

// HealthStatus represents the health status of a component.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "HEALTHY"
	HealthStatusDegraded  HealthStatus = "DEGRADED"
	HealthStatusUnhealthy HealthStatus = "UNHEALTHY"
	HealthStatusUnknown   HealthStatus = "UNKNOWN"
)

// ComponentHealth represents the health of a single component.
type ComponentHealth struct {
	Name      string                 `json:"name"`
	Status    HealthStatus           `json:"status"`
	Message   string                 `json:"message,omitempty"`
	LastCheck time.Time              `json:"last_check"`
	Latency   time.Duration          `json:"latency_ns"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// HealthCheck represents a health check function. A check that outlives the
// monitor's timeout is reported unhealthy; it should still return once ctx is done.
type HealthCheck func(ctx context.Context) ComponentHealth

// HealthReport is the outcome of one round of checks.
type HealthReport struct {
	Status     HealthStatus      `json:"status"`
	Uptime     string            `json:"uptime"`
	Components []ComponentHealth `json:"components"`
}

// HealthMonitor runs registered checks on demand.
type HealthMonitor struct {
	mu                 sync.RWMutex
	components         map[string]HealthCheck
	startTime          time.Time
	timeout            time.Duration
	goroutineThreshold int
}

// NewHealthMonitor creates a new health monitor. Each round of checks is
// bounded by timeout.
func NewHealthMonitor(timeout time.Duration) *HealthMonitor {
	return &HealthMonitor{
		components:         make(map[string]HealthCheck),
		startTime:          time.Now(),
		timeout:            timeout,
		goroutineThreshold: 1000,
	}
}

// RegisterComponent registers a health check for a component.
func (m *HealthMonitor) RegisterComponent(name string, check HealthCheck) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.components[name] = check
}

// Check runs every registered check concurrently plus the goroutine check.
// A panicking check counts as unhealthy.
func (m *HealthMonitor) Check(ctx context.Context) HealthReport {
	m.mu.RLock()
	components := make(map[string]HealthCheck, len(m.components))
	for k, v := range m.components {
		components[k] = v
	}
	m.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	// Buffered so checks that finish after the deadline never block.
	results := make(chan ComponentHealth, len(components)+1)
	pending := make(map[string]bool, len(components)+1)

	for name, check := range components {
		pending[name] = true
		go func(n string, c HealthCheck) {
			defer func() {
				if r := recover(); r != nil {
					results <- ComponentHealth{
						Name:      n,
						Status:    HealthStatusUnhealthy,
						Message:   fmt.Sprintf("check panicked: %v", r),
						LastCheck: time.Now(),
					}
				}
			}()

			start := time.Now()
			health := c(ctx)
			health.Name = n
			health.LastCheck = time.Now()
			health.Latency = time.Since(start)
			results <- health
		}(name, check)
	}

	pending["goroutines"] = true
	go func() {
		results <- m.checkGoroutines()
	}()

	report := HealthReport{
		Status: HealthStatusHealthy,
		Uptime: time.Since(m.startTime).Round(time.Second).String(),
	}
	add := func(health ComponentHealth) {
		report.Components = append(report.Components, health)
		switch health.Status {
		case HealthStatusUnhealthy:
			report.Status = HealthStatusUnhealthy
		case HealthStatusDegraded:
			if report.Status == HealthStatusHealthy {
				report.Status = HealthStatusDegraded
			}
		}
	}

collect:
	for len(pending) > 0 {
		select {
		case health := <-results:
			delete(pending, health.Name)
			add(health)
		case <-ctx.Done():
			break collect
		}
	}
	for name := range pending {
		add(ComponentHealth{
			Name:      name,
			Status:    HealthStatusUnhealthy,
			Message:   fmt.Sprintf("check timed out after %s", m.timeout),
			LastCheck: time.Now(),
		})
	}
	sort.Slice(report.Components, func(i, j int) bool {
		return report.Components[i].Name < report.Components[j].Name
	})

	return report
}

func (m *HealthMonitor) checkGoroutines() ComponentHealth {
	count := runtime.NumGoroutine()
	health := ComponentHealth{
		Name:      "goroutines",
		Status:    HealthStatusHealthy,
		LastCheck: time.Now(),
		Details:   map[string]interface{}{"count": count},
	}
	if count > m.goroutineThreshold {
		health.Status = HealthStatusDegraded
		health.Message = fmt.Sprintf("goroutine count %d above threshold %d", count, m.goroutineThreshold)
	}
	return health
}

// PingCheck adapts a ping function into a HealthCheck.
func PingCheck(ping func(ctx context.Context) error) HealthCheck {
	return func(ctx context.Context) ComponentHealth {
		if err := ping(ctx); err != nil {
			return ComponentHealth{Status: HealthStatusUnhealthy, Message: err.Error()}
		}
		return ComponentHealth{Status: HealthStatusHealthy}
	}
}
