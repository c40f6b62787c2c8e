package options

import (
	"strings"

	apperrors "options-lab/internal/errors"
	"options-lab/internal/models"
)

// GreekExplanation is the teaching text shown next to a Greek.
type GreekExplanation struct {
	Greek    models.Greek `json:"greek"`
	Symbol   string       `json:"symbol"`
	Examples string       `json:"examples"`
	Factors  string       `json:"factors"`
	Trading  string       `json:"trading"`
}

var greekExplanations = map[models.Greek]GreekExplanation{
	models.Delta: {
		Examples: "A call with Delta 0.5 gains $0.50 when the stock rises $1; deep in-the-money calls approach 1.0.",
		Factors:  "Moneyness and time to expiry drive Delta toward or away from ±1.",
		Trading:  "Use Delta to gauge directional exposure or to delta-hedge a position by balancing stock and options.",
	},
	models.Gamma: {
		Examples: "Near the strike, Gamma is highest, meaning Delta will change quickly as price moves.",
		Factors:  "Time to expiry and proximity to the strike influence Gamma; it falls as you move away from the strike.",
		Trading:  "High Gamma positions react strongly to price changes, so traders monitor Gamma when managing delta hedges.",
	},
	models.Theta: {
		Examples: "An option with Theta -0.05 loses about $0.05 per day from time decay.",
		Factors:  "Shorter time to expiry and higher extrinsic value increase the magnitude of Theta.",
		Trading:  "Option sellers rely on negative Theta to earn decay; buyers must overcome Theta with favorable moves.",
	},
	models.Vega: {
		Examples: "If Vega is 0.10, a 1% rise in implied volatility adds about $0.10 to the option price.",
		Factors:  "Vega grows with longer expiries and higher premiums and shrinks near expiration.",
		Trading:  "Traders use Vega to judge volatility exposure, favoring long Vega when expecting bigger moves.",
	},
	models.Rho: {
		Examples: "A call with Rho 0.02 gains $0.02 when rates rise 1%; puts move inversely.",
		Factors:  "Longer-dated options are more sensitive to interest rates, so Rho increases with time.",
		Trading:  "Rho is minor for short-dated contracts but matters for LEAPS and rate-driven strategies.",
	},
}

// ParseGreek resolves a Greek name case-insensitively.
func ParseGreek(name string) (models.Greek, error) {
	for _, g := range models.AllGreeks() {
		if strings.EqualFold(string(g), strings.TrimSpace(name)) {
			return g, nil
		}
	}
	return "", apperrors.Wrapf(apperrors.ErrUnknownGreek, "%q", name)
}

// ExplainGreek returns the teaching text for g.
func ExplainGreek(g models.Greek) (GreekExplanation, error) {
	e, ok := greekExplanations[g]
	if !ok {
		return GreekExplanation{}, apperrors.Wrapf(apperrors.ErrUnknownGreek, "%q", g)
	}
	e.Greek = g
	e.Symbol = g.Symbol()
	return e, nil
}

// ParameterInfo describes one input of the parameter set along with the
// range the dashboard sliders offer.
type ParameterInfo struct {
	Field   string  `json:"field"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Step    float64 `json:"step"`
}

// ParameterHelp returns the description of every parameter in slider order.
func ParameterHelp() []ParameterInfo {
	return []ParameterInfo{
		{"current_price", "Current Stock Price (S)", "The current market price of the underlying stock. This determines option moneyness.", 50, 200, 1},
		{"strike_price", "Strike Price (K)", "The exercise price of the option contract.", 50, 200, 5},
		{"premium", "Option Premium", "The price paid for the option contract. For short strategies this is the credit received.", 0.5, 30, 0.25},
		{"days_to_expiry", "Days to Expiry (T)", "Number of days until the option expires. Shorter durations increase time decay (Theta).", 1, 365, 1},
		{"implied_volatility", "Implied Volatility (IV)", "Expected volatility of the underlying over the life of the option. Higher IV increases option premiums.", 5, 100, 1},
		{"interest_rate", "Risk-free Interest Rate (r)", "Annualized interest rate used in option pricing models. Higher rates generally raise call values and lower put values.", 0, 10, 0.1},
		{"dividend_yield", "Dividend Yield (q)", "Expected annual dividend yield of the underlying stock. Dividends decrease call values and increase put values.", 0, 5, 0.1},
	}
}
