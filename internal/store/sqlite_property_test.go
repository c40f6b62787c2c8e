package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"options-lab/internal/models"
)

// Property: for any valid parameter set, saving a scenario and reading it back
// by id and by name yields the same parameters and notes.
func TestProperty_ScenarioRoundTripConsistency(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "scenarios_property.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	notesGen := gen.OneConstOf("", "rolled from last month", "hedge for earnings\nsecond line")
	seq := 0

	properties.Property("Scenario round-trip: save then retrieve produces equal data", prop.ForAll(
		func(strike, current, premium, days, iv float64, notes string) bool {
			ctx := context.Background()
			seq++

			p := models.DefaultParameters()
			p.StrikePrice, p.CurrentPrice, p.Premium, p.DaysToExpiry, p.ImpliedVolatility = strike, current, premium, days, iv

			scenario := &models.Scenario{Name: fmt.Sprintf("scenario %d", seq), Notes: notes, Params: p}
			if err := store.SaveScenario(ctx, scenario); err != nil {
				t.Logf("Failed to save scenario: %v", err)
				return false
			}

			byID, err := store.GetScenario(ctx, scenario.ID)
			if err != nil {
				t.Logf("Failed to get scenario: %v", err)
				return false
			}
			byName, err := store.GetScenarioByName(ctx, scenario.Name)
			if err != nil {
				t.Logf("Failed to get scenario by name: %v", err)
				return false
			}

			for _, got := range []*models.Scenario{byID, byName} {
				if got.ID != scenario.ID || got.Params != p || got.Notes != notes {
					t.Logf("Scenario mismatch: saved=%+v, retrieved=%+v", scenario, got)
					return false
				}
			}
			return true
		},
		gen.Float64Range(0.01, 10000),
		gen.Float64Range(0.01, 10000),
		gen.Float64Range(0, 500),
		gen.Float64Range(0.5, 730),
		gen.Float64Range(0, 300),
		notesGen,
	))

	properties.TestingRun(t)
}
