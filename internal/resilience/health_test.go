package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestHealthMonitorCheck(t *testing.T) {
	m := NewHealthMonitor(time.Second)
	m.RegisterComponent("store", PingCheck(func(ctx context.Context) error { return nil }))

	report := m.Check(context.Background())
	if report.Status != HealthStatusHealthy {
		t.Errorf("status = %s, want HEALTHY", report.Status)
	}
	if len(report.Components) != 2 || report.Components[0].Name != "goroutines" || report.Components[1].Name != "store" {
		t.Fatalf("components = %+v", report.Components)
	}
	if report.Components[0].Details["count"] == nil {
		t.Error("goroutine count missing")
	}
}

func TestHealthMonitorAggregation(t *testing.T) {
	m := NewHealthMonitor(time.Second)
	m.RegisterComponent("slow", func(ctx context.Context) ComponentHealth {
		return ComponentHealth{Status: HealthStatusDegraded, Message: "lagging"}
	})

	if got := m.Check(context.Background()).Status; got != HealthStatusDegraded {
		t.Errorf("status = %s, want DEGRADED", got)
	}

	m.RegisterComponent("store", PingCheck(func(ctx context.Context) error { return errors.New("database is closed") }))
	report := m.Check(context.Background())
	if report.Status != HealthStatusUnhealthy {
		t.Errorf("status = %s, want UNHEALTHY", report.Status)
	}
	for _, c := range report.Components {
		if c.Name == "store" && c.Message != "database is closed" {
			t.Errorf("store message = %q", c.Message)
		}
	}
}

func TestHealthMonitorPanickingCheck(t *testing.T) {
	m := NewHealthMonitor(time.Second)
	m.RegisterComponent("flaky", func(ctx context.Context) ComponentHealth {
		panic("nil map")
	})

	report := m.Check(context.Background())
	if report.Status != HealthStatusUnhealthy {
		t.Errorf("status = %s, want UNHEALTHY", report.Status)
	}
}

func TestHealthMonitorTimeout(t *testing.T) {
	m := NewHealthMonitor(20 * time.Millisecond)
	m.RegisterComponent("store", PingCheck(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))

	report := m.Check(context.Background())
	if report.Status != HealthStatusUnhealthy {
		t.Errorf("status = %s, want UNHEALTHY after the deadline", report.Status)
	}
}

func TestHealthMonitorIgnoresContextlessCheck(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	m := NewHealthMonitor(20 * time.Millisecond)
	m.RegisterComponent("stuck", func(ctx context.Context) ComponentHealth {
		<-release
		return ComponentHealth{Status: HealthStatusHealthy}
	})

	start := time.Now()
	report := m.Check(context.Background())
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Check took %s, want it bounded by the timeout", elapsed)
	}
	if report.Status != HealthStatusUnhealthy {
		t.Errorf("status = %s, want UNHEALTHY", report.Status)
	}

	var stuck *ComponentHealth
	for i := range report.Components {
		if report.Components[i].Name == "stuck" {
			stuck = &report.Components[i]
		}
	}
	if stuck == nil || stuck.Status != HealthStatusUnhealthy || stuck.Message == "" {
		t.Errorf("stuck component = %+v", stuck)
	}
}
