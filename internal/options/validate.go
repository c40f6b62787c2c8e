// Package options implements the payoff and Greeks calculations behind the dashboard.
//
// Everything here is a pure function of a models.ParameterSet. Callers validate
// the set with ValidateParameters, then ask for a payoff curve or the Greeks.
package options

import (
	"math"

	apperrors "options-lab/internal/errors"
	"options-lab/internal/models"
)

type bound int

const (
	positive    bound = iota // > 0
	nonNegative              // >= 0
)

type fieldRule struct {
	field   string
	value   func(models.ParameterSet) float64
	bound   bound
	message string
	label   string
}

// Checked in this order; the first violation is reported.
var parameterRules = []fieldRule{
	{"strike_price", func(p models.ParameterSet) float64 { return p.StrikePrice }, positive, "Strike price must be positive", "Strike price"},
	{"current_price", func(p models.ParameterSet) float64 { return p.CurrentPrice }, positive, "Current price must be positive", "Current price"},
	{"premium", func(p models.ParameterSet) float64 { return p.Premium }, nonNegative, "Premium cannot be negative", "Premium"},
	{"days_to_expiry", func(p models.ParameterSet) float64 { return p.DaysToExpiry }, positive, "Days to expiry must be positive", "Days to expiry"},
	{"implied_volatility", func(p models.ParameterSet) float64 { return p.ImpliedVolatility }, nonNegative, "Implied volatility cannot be negative", "Implied volatility"},
	{"interest_rate", func(p models.ParameterSet) float64 { return p.InterestRate }, nonNegative, "Interest rate cannot be negative", "Interest rate"},
	{"dividend_yield", func(p models.ParameterSet) float64 { return p.DividendYield }, nonNegative, "Dividend yield cannot be negative", "Dividend yield"},
}

// ValidateParameters checks p against the parameter constraints and returns a
// *errors.ValidationError for the first field that violates one. A nil return
// means every calculation in this package is safe to run on p.
func ValidateParameters(p models.ParameterSet) error {
	for _, rule := range parameterRules {
		v := rule.value(p)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return apperrors.NewValidationError(rule.field, v, rule.label+" must be a finite number")
		}
		switch rule.bound {
		case positive:
			if v <= 0 {
				return apperrors.NewValidationError(rule.field, v, rule.message)
			}
		case nonNegative:
			if v < 0 {
				return apperrors.NewValidationError(rule.field, v, rule.message)
			}
		}
	}
	return nil
}
