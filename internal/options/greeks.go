package options

import (
	"math"

	"options-lab/internal/models"
)

const daysPerYear = 365.0

// EstimateGreeks computes the teaching approximations of the Greeks.
// These are step functions and closed-form heuristics, not model Greeks.
// p must already have passed ValidateParameters.
func EstimateGreeks(p models.ParameterSet) models.GreeksResult {
	moneyness := p.CurrentPrice / p.StrikePrice
	timeToExpiry := p.DaysToExpiry / daysPerYear

	return models.GreeksResult{
		Moneyness:         moneyness,
		TimeToExpiryYears: timeToExpiry,
		Delta: models.GreekValue{
			Call:   callDelta(moneyness),
			Put:    putDelta(moneyness),
			Paired: true,
		},
		Gamma: models.GreekValue{Call: gamma(moneyness)},
		Theta: models.GreekValue{Call: -p.Premium * 0.03 * (30 / p.DaysToExpiry)},
		Vega:  models.GreekValue{Call: p.Premium * 0.2 * math.Sqrt(timeToExpiry)},
		Rho: models.GreekValue{
			Call:   p.Premium * 0.01,
			Put:    -p.Premium * 0.01,
			Paired: true,
		},
	}
}

// Boundaries fall into the lower bucket: moneyness of exactly 1 is 0.5.
func callDelta(moneyness float64) float64 {
	if moneyness > 1 {
		return 0.7
	}
	if moneyness > 0.95 {
		return 0.5
	}
	return 0.3
}

func putDelta(moneyness float64) float64 {
	if moneyness < 1 {
		return -0.7
	}
	if moneyness < 1.05 {
		return -0.5
	}
	return -0.3
}

func gamma(moneyness float64) float64 {
	return math.Max(0.1, 0.3*math.Exp(-math.Abs(moneyness-1)*5))
}
