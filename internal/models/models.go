// Package models provides domain models for the options payoff toolkit.
package models

import (
	"time"
)

// Action represents the side of a strategy leg.
type Action string

const (
	ActionBuy  Action = "Buy"
	ActionSell Action = "Sell"
)

// Instrument represents what a strategy leg trades.
type Instrument string

const (
	InstrumentCall  Instrument = "Call"
	InstrumentPut   Instrument = "Put"
	InstrumentStock Instrument = "Stock"
)

// IsOption reports whether the instrument is an option contract.
func (i Instrument) IsOption() bool {
	return i == InstrumentCall || i == InstrumentPut
}

// Category classifies a strategy by market outlook.
type Category string

const (
	CategoryBullish    Category = "Bullish"
	CategoryBearish    Category = "Bearish"
	CategoryNeutral    Category = "Neutral"
	CategoryVolatility Category = "Volatility"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryBullish, CategoryBearish, CategoryNeutral, CategoryVolatility:
		return true
	}
	return false
}

// Complexity classifies how hard a strategy is to manage.
type Complexity string

const (
	ComplexityBasic        Complexity = "Basic"
	ComplexityIntermediate Complexity = "Intermediate"
	ComplexityAdvanced     Complexity = "Advanced"
)

// Valid reports whether c is a known complexity.
func (c Complexity) Valid() bool {
	switch c {
	case ComplexityBasic, ComplexityIntermediate, ComplexityAdvanced:
		return true
	}
	return false
}

// RiskLevel classifies the loss exposure of a strategy.
type RiskLevel string

const (
	RiskLow       RiskLevel = "Low"
	RiskMedium    RiskLevel = "Medium"
	RiskHigh      RiskLevel = "High"
	RiskUnlimited RiskLevel = "Unlimited"
)

// Valid reports whether r is a known risk level.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskUnlimited:
		return true
	}
	return false
}

// ParameterSet is the full set of market inputs every calculation runs on.
// Values are percentages where noted (25 means 25%).
type ParameterSet struct {
	StrikePrice       float64 `json:"strike_price" mapstructure:"strike_price"`
	CurrentPrice      float64 `json:"current_price" mapstructure:"current_price"`
	Premium           float64 `json:"premium" mapstructure:"premium"`
	DaysToExpiry      float64 `json:"days_to_expiry" mapstructure:"days_to_expiry"`
	ImpliedVolatility float64 `json:"implied_volatility" mapstructure:"implied_volatility"`
	InterestRate      float64 `json:"interest_rate" mapstructure:"interest_rate"`
	DividendYield     float64 `json:"dividend_yield" mapstructure:"dividend_yield"`
}

// DefaultParameters returns the parameter set shown on first load.
func DefaultParameters() ParameterSet {
	return ParameterSet{
		StrikePrice:       100,
		CurrentPrice:      100,
		Premium:           5,
		DaysToExpiry:      30,
		ImpliedVolatility: 25,
		InterestRate:      5,
		DividendYield:     2,
	}
}

// Leg represents one constituent position of a strategy.
// Strike and Premium are optional display hints.
type Leg struct {
	Action     Action     `json:"action"`
	Instrument Instrument `json:"instrument"`
	Strike     *float64   `json:"strike,omitempty"`
	Premium    *float64   `json:"premium,omitempty"`
}

// Sign returns -1 for a bought leg (debit) and +1 for a sold leg (credit).
func (l Leg) Sign() float64 {
	if l.Action == ActionBuy {
		return -1
	}
	return 1
}

// PayoffPoint is one sample of a payoff curve.
type PayoffPoint struct {
	StockPrice float64 `json:"stock_price"`
	ProfitLoss float64 `json:"profit_loss"`
}

// Scenario is a user-saved parameter set.
type Scenario struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Notes     string       `json:"notes,omitempty"`
	Params    ParameterSet `json:"params"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
