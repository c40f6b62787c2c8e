package models

// Greek identifies one of the option sensitivities.
type Greek string

const (
	Delta Greek = "Delta"
	Gamma Greek = "Gamma"
	Theta Greek = "Theta"
	Vega  Greek = "Vega"
	Rho   Greek = "Rho"
)

// AllGreeks returns the Greeks in display order.
func AllGreeks() []Greek {
	return []Greek{Delta, Gamma, Theta, Vega, Rho}
}

// Symbol returns the Greek letter used for g.
func (g Greek) Symbol() string {
	switch g {
	case Delta:
		return "Δ"
	case Gamma:
		return "Γ"
	case Theta:
		return "Θ"
	case Vega:
		return "ν"
	case Rho:
		return "ρ"
	}
	return "?"
}

// GreekValue holds either a single value (Call only) or a call/put pair.
type GreekValue struct {
	Call   float64 `json:"call"`
	Put    float64 `json:"put"`
	Paired bool    `json:"paired"`
}

// GreeksResult holds the simplified Greeks for one parameter set.
type GreeksResult struct {
	Moneyness         float64    `json:"moneyness"`
	TimeToExpiryYears float64    `json:"time_to_expiry_years"`
	Delta             GreekValue `json:"delta"`
	Gamma             GreekValue `json:"gamma"`
	Theta             GreekValue `json:"theta"`
	Vega              GreekValue `json:"vega"`
	Rho               GreekValue `json:"rho"`
}

// Value returns the value for g. Unknown Greeks yield the zero value.
func (r GreeksResult) Value(g Greek) GreekValue {
	switch g {
	case Delta:
		return r.Delta
	case Gamma:
		return r.Gamma
	case Theta:
		return r.Theta
	case Vega:
		return r.Vega
	case Rho:
		return r.Rho
	}
	return GreekValue{}
}

// CurveSummary holds the headline figures of a sampled payoff curve.
type CurveSummary struct {
	MaxProfit   float64   `json:"max_profit"`
	MaxProfitAt float64   `json:"max_profit_at"`
	MaxLoss     float64   `json:"max_loss"`
	MaxLossAt   float64   `json:"max_loss_at"`
	Breakevens  []float64 `json:"breakevens"`
	NetPremium  float64   `json:"net_premium"` // positive = credit, negative = debit
}
