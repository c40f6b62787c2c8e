package options

import (
	"github.com/shopspring/decimal"

	"options-lab/internal/models"
)

// breakevenPlaces is the precision interpolated breakevens are rounded to.
const breakevenPlaces = 2

// Summarize derives the headline figures of a sampled curve: the extremes the
// chart shades, the interpolated breakevens and the net premium of the legs.
// Extremes are over the sampled points only, so an "Unlimited" profit shows
// up as the value at the top of the range.
func Summarize(points []models.PayoffPoint, strategy Strategy, p models.ParameterSet) models.CurveSummary {
	summary := models.CurveSummary{
		Breakevens: []float64{},
		NetPremium: NetPremium(strategy.Legs, p),
	}
	if len(points) == 0 {
		return summary
	}

	summary.MaxProfit, summary.MaxProfitAt = points[0].ProfitLoss, points[0].StockPrice
	summary.MaxLoss, summary.MaxLossAt = points[0].ProfitLoss, points[0].StockPrice
	for _, pt := range points[1:] {
		if pt.ProfitLoss > summary.MaxProfit {
			summary.MaxProfit, summary.MaxProfitAt = pt.ProfitLoss, pt.StockPrice
		}
		if pt.ProfitLoss < summary.MaxLoss {
			summary.MaxLoss, summary.MaxLossAt = pt.ProfitLoss, pt.StockPrice
		}
	}

	summary.Breakevens = Breakevens(points)
	return summary
}

// Breakevens returns the stock prices where the curve crosses zero, found by
// linear interpolation between samples. A run of exact zeros counts once.
func Breakevens(points []models.PayoffPoint) []float64 {
	out := []float64{}
	for i, pt := range points {
		if pt.ProfitLoss == 0 {
			if i == 0 || points[i-1].ProfitLoss != 0 {
				out = append(out, roundPrice(pt.StockPrice))
			}
			continue
		}
		if i+1 == len(points) {
			break
		}
		next := points[i+1]
		if next.ProfitLoss != 0 && (pt.ProfitLoss < 0) != (next.ProfitLoss < 0) {
			x := pt.StockPrice + (0-pt.ProfitLoss)*(next.StockPrice-pt.StockPrice)/(next.ProfitLoss-pt.ProfitLoss)
			out = append(out, roundPrice(x))
		}
	}
	return out
}

// NetPremium sums the premium of each leg: bought legs are debits, sold legs
// credits. Option legs without an explicit premium use p.Premium; stock legs
// without one contribute nothing.
func NetPremium(legs []models.Leg, p models.ParameterSet) float64 {
	net := decimal.Zero
	for _, leg := range legs {
		var premium float64
		switch {
		case leg.Premium != nil:
			premium = *leg.Premium
		case leg.Instrument.IsOption():
			premium = p.Premium
		}
		net = net.Add(decimal.NewFromFloat(premium).Mul(decimal.NewFromFloat(leg.Sign())))
	}
	f, _ := net.Float64()
	return f
}

func roundPrice(x float64) float64 {
	f, _ := decimal.NewFromFloat(x).Round(breakevenPlaces).Float64()
	return f
}
