// Package store provides persistence of user-saved scenarios.
package store

import (
	"context"

	"options-lab/internal/models"
)

// ScenarioStore defines the interface for scenario persistence.
type ScenarioStore interface {
	// SaveScenario inserts the scenario, or updates it when the id exists.
	// An empty id is filled in with a new one.
	SaveScenario(ctx context.Context, scenario *models.Scenario) error
	GetScenario(ctx context.Context, id string) (*models.Scenario, error)
	GetScenarioByName(ctx context.Context, name string) (*models.Scenario, error)
	ListScenarios(ctx context.Context, filter ScenarioFilter) ([]models.Scenario, error)
	DeleteScenario(ctx context.Context, id string) error

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}

// ScenarioFilter represents filters for listing scenarios.
type ScenarioFilter struct {
	NameContains string
	Limit        int
}
