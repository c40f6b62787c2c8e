package options

import (
	"strings"

	apperrors "options-lab/internal/errors"
	"options-lab/internal/models"
)

// Preset is a named parameter set the UI can load with one click.
type Preset struct {
	Key    string              `json:"key"`
	Label  string              `json:"label"`
	Params models.ParameterSet `json:"params"`
}

var presets = []Preset{
	{"ATMOption", "ATM Option", models.ParameterSet{StrikePrice: 100, CurrentPrice: 100, Premium: 3, DaysToExpiry: 30, ImpliedVolatility: 20, InterestRate: 5, DividendYield: 2}},
	{"OTMCall", "OTM Call", models.ParameterSet{StrikePrice: 105, CurrentPrice: 100, Premium: 2, DaysToExpiry: 30, ImpliedVolatility: 25, InterestRate: 5, DividendYield: 2}},
	{"OTMPut", "OTM Put", models.ParameterSet{StrikePrice: 95, CurrentPrice: 100, Premium: 2, DaysToExpiry: 30, ImpliedVolatility: 25, InterestRate: 5, DividendYield: 2}},
	{"HighVol", "High Vol", models.ParameterSet{StrikePrice: 100, CurrentPrice: 100, Premium: 8, DaysToExpiry: 7, ImpliedVolatility: 50, InterestRate: 5, DividendYield: 1}},
	{"EarningsWeek", "Earnings Week", models.ParameterSet{StrikePrice: 100, CurrentPrice: 100, Premium: 10, DaysToExpiry: 5, ImpliedVolatility: 70, InterestRate: 5, DividendYield: 1}},
	{"CalmMarket", "Calm Market", models.ParameterSet{StrikePrice: 100, CurrentPrice: 100, Premium: 2, DaysToExpiry: 45, ImpliedVolatility: 12, InterestRate: 5, DividendYield: 2}},
	{"CrashScenario", "Crash Scenario", models.ParameterSet{StrikePrice: 95, CurrentPrice: 75, Premium: 6, DaysToExpiry: 14, ImpliedVolatility: 80, InterestRate: 4, DividendYield: 0}},
}

// Presets returns the built-in presets in display order.
func Presets() []Preset {
	return append([]Preset(nil), presets...)
}

// PresetByKey finds a preset by key. Matching ignores case, dashes,
// underscores and spaces, so "otm-call" finds OTMCall.
func PresetByKey(key string) (Preset, error) {
	want := normalizeKey(key)
	for _, p := range presets {
		if normalizeKey(p.Key) == want {
			return p, nil
		}
	}
	return Preset{}, apperrors.Wrapf(apperrors.ErrPresetNotFound, "%q", key)
}

func normalizeKey(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', ' ':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}
