package options

import (
	"math"
	"strings"

	apperrors "options-lab/internal/errors"
	"options-lab/internal/models"
)

// PayoffFunc returns the profit or loss of a strategy when the underlying
// settles at stockPrice.
type PayoffFunc func(stockPrice float64, p models.ParameterSet) (float64, error)

// StrategyInfo is the descriptive metadata of a strategy. None of it takes
// part in the calculations.
type StrategyInfo struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    models.Category   `json:"category"`
	Complexity  models.Complexity `json:"complexity"`
	RiskLevel   models.RiskLevel  `json:"risk_level"`
	MaxProfit   string            `json:"max_profit"`
	MaxLoss     string            `json:"max_loss"`
	Breakeven   string            `json:"breakeven"`
	WhenToUse   []string          `json:"when_to_use"`
}

// Strategy is a catalog entry: metadata, the legs that make it up and the
// payoff function, which is authoritative over the legs.
type Strategy struct {
	StrategyInfo
	Legs   []models.Leg `json:"legs"`
	Payoff PayoffFunc   `json:"-"`
}

// CalculatePayoff evaluates the strategy at stockPrice.
func (s Strategy) CalculatePayoff(stockPrice float64, p models.ParameterSet) (float64, error) {
	if s.Payoff == nil {
		return 0, apperrors.NewStrategyError(s.ID, "no payoff function", nil)
	}
	return s.Payoff(stockPrice, p)
}

func (s Strategy) clone() Strategy {
	out := s
	out.Legs = append([]models.Leg(nil), s.Legs...)
	out.WhenToUse = append([]string(nil), s.WhenToUse...)
	return out
}

// Strategy identifiers of the built-in catalog.
const (
	LongCallID      = "long-call"
	LongPutID       = "long-put"
	CoveredCallID   = "covered-call"
	ProtectivePutID = "protective-put"
)

func longCall(s float64, o models.ParameterSet) (float64, error) {
	return math.Max(s-o.StrikePrice, 0) - o.Premium, nil
}

func longPut(s float64, o models.ParameterSet) (float64, error) {
	return math.Max(o.StrikePrice-s, 0) - o.Premium, nil
}

func coveredCall(s float64, o models.ParameterSet) (float64, error) {
	stockPayoff := s - o.CurrentPrice
	shortCall := -math.Max(s-o.StrikePrice, 0) + o.Premium
	return stockPayoff + shortCall, nil
}

func protectivePut(s float64, o models.ParameterSet) (float64, error) {
	stockPayoff := s - o.CurrentPrice
	longPut := math.Max(o.StrikePrice-s, 0) - o.Premium
	return stockPayoff + longPut, nil
}

var builtinStrategies = []Strategy{
	{
		StrategyInfo: StrategyInfo{
			ID:          LongCallID,
			Title:       "Long Call",
			Description: "Buy a call option expecting the stock price to rise significantly above the strike price.",
			Category:    models.CategoryBullish,
			Complexity:  models.ComplexityBasic,
			RiskLevel:   models.RiskLow,
			MaxProfit:   "Unlimited",
			MaxLoss:     "Premium Paid",
			Breakeven:   "Strike Price + Premium",
			WhenToUse: []string{
				"You expect the stock to rise significantly",
				"Earnings announcement approaching with positive expectations",
				"Technical breakout patterns suggesting upward momentum",
				"Low cost way to participate in upside potential",
			},
		},
		Legs:   []models.Leg{{Action: models.ActionBuy, Instrument: models.InstrumentCall}},
		Payoff: longCall,
	},
	{
		StrategyInfo: StrategyInfo{
			ID:          LongPutID,
			Title:       "Long Put",
			Description: "Buy a put option expecting the stock price to fall significantly below the strike price.",
			Category:    models.CategoryBearish,
			Complexity:  models.ComplexityBasic,
			RiskLevel:   models.RiskLow,
			MaxProfit:   "Strike Price - Premium",
			MaxLoss:     "Premium Paid",
			Breakeven:   "Strike Price - Premium",
			WhenToUse: []string{
				"You expect the stock to decline significantly",
				"Negative news or poor earnings outlook for the company",
				"Hedging against a long position in the underlying stock",
				"Low cost way to speculate on downside movement",
			},
		},
		Legs:   []models.Leg{{Action: models.ActionBuy, Instrument: models.InstrumentPut}},
		Payoff: longPut,
	},
	{
		StrategyInfo: StrategyInfo{
			ID:          CoveredCallID,
			Title:       "Covered Call",
			Description: "Sell a call option while holding the underlying stock to generate income and cap potential upside.",
			Category:    models.CategoryNeutral,
			Complexity:  models.ComplexityBasic,
			RiskLevel:   models.RiskMedium,
			MaxProfit:   "Strike Price - Stock Cost + Premium",
			MaxLoss:     "Stock Cost - Premium",
			Breakeven:   "Stock Cost - Premium",
			WhenToUse: []string{
				"You believe the stock will trade sideways",
				"You want to generate income from a long stock position",
				"You are willing to sell your shares at the strike price",
				"You expect moderate price appreciation but want some downside protection",
			},
		},
		Legs: []models.Leg{
			{Action: models.ActionSell, Instrument: models.InstrumentCall},
			{Action: models.ActionBuy, Instrument: models.InstrumentStock},
		},
		Payoff: coveredCall,
	},
	{
		StrategyInfo: StrategyInfo{
			ID:          ProtectivePutID,
			Title:       "Protective Put",
			Description: "Buy a put option to protect a long stock position from downside risk while maintaining upside potential.",
			Category:    models.CategoryNeutral,
			Complexity:  models.ComplexityBasic,
			RiskLevel:   models.RiskLow,
			MaxProfit:   "Unlimited",
			MaxLoss:     "Stock Cost + Premium - Strike Price",
			Breakeven:   "Stock Cost + Premium",
			WhenToUse: []string{
				"You own the stock and want downside protection",
				"Volatile market conditions with uncertain outlook",
				"Earnings announcements or macro events could cause large drops",
				"Insurance against a decline while retaining upside exposure",
			},
		},
		Legs: []models.Leg{
			{Action: models.ActionBuy, Instrument: models.InstrumentStock},
			{Action: models.ActionBuy, Instrument: models.InstrumentPut},
		},
		Payoff: protectivePut,
	},
}

// Strategies returns the built-in catalog in display order. The slice and
// everything it references are copies.
func Strategies() []Strategy {
	out := make([]Strategy, len(builtinStrategies))
	for i, s := range builtinStrategies {
		out[i] = s.clone()
	}
	return out
}

// StrategyByID looks up a built-in strategy.
func StrategyByID(id string) (Strategy, bool) {
	for _, s := range builtinStrategies {
		if s.ID == id {
			return s.clone(), true
		}
	}
	return Strategy{}, false
}

// Catalog is an ordered, read-only set of strategies: the built-ins followed
// by any user-defined extras.
type Catalog struct {
	strategies []Strategy
	index      map[string]int
}

// NewCatalog builds a catalog from the built-ins plus extra. Extras must have
// a non-empty, unique id and a payoff function.
func NewCatalog(extra ...Strategy) (*Catalog, error) {
	c := &Catalog{index: make(map[string]int)}
	for _, s := range append(Strategies(), extra...) {
		id := strings.TrimSpace(s.ID)
		if id == "" {
			return nil, apperrors.NewStrategyError(s.Title, "missing id", nil)
		}
		if _, dup := c.index[id]; dup {
			return nil, apperrors.NewStrategyError(id, "duplicate id", nil)
		}
		if s.Payoff == nil {
			return nil, apperrors.NewStrategyError(id, "no payoff function", nil)
		}
		s.ID = id
		c.index[id] = len(c.strategies)
		c.strategies = append(c.strategies, s.clone())
	}
	return c, nil
}

// All returns the catalog entries in order.
func (c *Catalog) All() []Strategy {
	out := make([]Strategy, len(c.strategies))
	for i, s := range c.strategies {
		out[i] = s.clone()
	}
	return out
}

// Get looks up a strategy by id.
func (c *Catalog) Get(id string) (Strategy, error) {
	i, ok := c.index[strings.TrimSpace(id)]
	if !ok {
		return Strategy{}, apperrors.Wrapf(apperrors.ErrStrategyNotFound, "%q", id)
	}
	return c.strategies[i].clone(), nil
}

// Len returns the number of strategies.
func (c *Catalog) Len() int {
	return len(c.strategies)
}
