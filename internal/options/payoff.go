package options

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	apperrors "options-lab/internal/errors"
	"options-lab/internal/logging"
	"options-lab/internal/models"
)

// Curve sampling. The range is [max(0, strike-CurveHalfWidth), strike+CurveHalfWidth]
// walked upward in CurveStep increments.
const (
	CurveHalfWidth = 30.0
	CurveStep      = 2.0

	curveEpsilon = 1e-9
)

// FailureSink receives a notification for every payoff sample that failed.
type FailureSink interface {
	RecordPayoffFailure(strategyID string)
}

// Engine generates payoff curves. Failed samples are logged, reported to the
// sink and replaced with zero; they never reach the caller.
type Engine struct {
	logger zerolog.Logger
	sink   FailureSink
}

// NewEngine creates an Engine. sink may be nil.
func NewEngine(logger zerolog.Logger, sink FailureSink) *Engine {
	return &Engine{
		logger: logging.WithOperation(logger, "payoff"),
		sink:   sink,
	}
}

// GeneratePayoffData samples the strategy over the price range around the
// strike. The result is ascending by stock price and freshly allocated.
func (e *Engine) GeneratePayoffData(strategy Strategy, p models.ParameterSet) []models.PayoffPoint {
	minPrice, maxPrice := PriceRange(p.StrikePrice)
	if math.IsNaN(minPrice) || math.IsInf(minPrice, 0) || math.IsInf(maxPrice, 0) {
		e.logger.Warn().
			Str("event", "curve_skipped").
			Str("strategy", strategy.ID).
			Float64("strike_price", p.StrikePrice).
			Msg("Price range is not finite")
		return []models.PayoffPoint{}
	}

	// Samples are indexed rather than accumulated so the count is fixed and
	// float drift cannot add or drop the last point.
	samples := int(math.Floor((maxPrice-minPrice)/CurveStep+curveEpsilon)) + 1

	data := make([]models.PayoffPoint, 0, samples)
	collapsed := 0
	for i := 0; i < samples; i++ {
		price := math.Min(minPrice+float64(i)*CurveStep, maxPrice)
		if n := len(data); n > 0 && price <= data[n-1].StockPrice {
			collapsed++
			continue
		}
		data = append(data, models.PayoffPoint{
			StockPrice: price,
			ProfitLoss: e.SafePayoff(price, strategy, p),
		})
	}
	if collapsed > 0 {
		e.logger.Warn().
			Str("event", "curve_resolution_exceeded").
			Str("strategy", strategy.ID).
			Float64("strike_price", p.StrikePrice).
			Int("collapsed", collapsed).
			Int("points", len(data)).
			Msg("Strike too large to sample at the curve step")
	}
	return data
}

// SafePayoff evaluates one sample. Errors, panics and non-finite results
// become zero.
func (e *Engine) SafePayoff(stockPrice float64, strategy Strategy, p models.ParameterSet) float64 {
	v, err := evaluate(stockPrice, strategy, p)
	if err != nil {
		calcErr := apperrors.NewCalculationError(strategy.ID, stockPrice, err)
		logging.LogCalculationFailure(e.logger, strategy.ID, stockPrice, calcErr)
		if e.sink != nil {
			e.sink.RecordPayoffFailure(strategy.ID)
		}
		return 0
	}
	return v
}

func evaluate(stockPrice float64, strategy Strategy, p models.ParameterSet) (v float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = 0, fmt.Errorf("panic: %v", r)
		}
	}()

	v, err = strategy.CalculatePayoff(stockPrice, p)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite result %v", v)
	}
	return v, nil
}

// PriceRange returns the first and last candidate stock prices of a curve.
func PriceRange(strike float64) (float64, float64) {
	return math.Max(0, strike-CurveHalfWidth), strike + CurveHalfWidth
}

// GeneratePayoffData samples the strategy using the global logger and no
// failure sink.
func GeneratePayoffData(strategy Strategy, p models.ParameterSet) []models.PayoffPoint {
	return NewEngine(log.Logger, nil).GeneratePayoffData(strategy, p)
}
