package options

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	apperrors "options-lab/internal/errors"
	"options-lab/internal/models"
)

func TestValidateParameters(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(p *models.ParameterSet)
		field   string
		message string
	}{
		{"defaults", func(p *models.ParameterSet) {}, "", ""},
		{"zero strike", func(p *models.ParameterSet) { p.StrikePrice = 0 }, "strike_price", "Strike price must be positive"},
		{"zero current", func(p *models.ParameterSet) { p.CurrentPrice = 0 }, "current_price", "Current price must be positive"},
		{"zero premium allowed", func(p *models.ParameterSet) { p.Premium = 0 }, "", ""},
		{"negative premium", func(p *models.ParameterSet) { p.Premium = -0.01 }, "premium", "Premium cannot be negative"},
		{"zero days", func(p *models.ParameterSet) { p.DaysToExpiry = 0 }, "days_to_expiry", "Days to expiry must be positive"},
		{"fractional days", func(p *models.ParameterSet) { p.DaysToExpiry = 0.5 }, "", ""},
		{"zero iv allowed", func(p *models.ParameterSet) { p.ImpliedVolatility = 0 }, "", ""},
		{"negative iv", func(p *models.ParameterSet) { p.ImpliedVolatility = -1 }, "implied_volatility", "Implied volatility cannot be negative"},
		{"negative rate", func(p *models.ParameterSet) { p.InterestRate = -1 }, "interest_rate", "Interest rate cannot be negative"},
		{"negative yield", func(p *models.ParameterSet) { p.DividendYield = -1 }, "dividend_yield", "Dividend yield cannot be negative"},
		{"NaN strike", func(p *models.ParameterSet) { p.StrikePrice = math.NaN() }, "strike_price", "Strike price must be a finite number"},
		{"infinite premium", func(p *models.ParameterSet) { p.Premium = math.Inf(1) }, "premium", "Premium must be a finite number"},
		{"first failure wins", func(p *models.ParameterSet) { p.Premium = -1; p.StrikePrice = -1 }, "strike_price", "Strike price must be positive"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := models.DefaultParameters()
			tc.mutate(&p)
			err := ValidateParameters(p)

			if tc.field == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}

			var verr *apperrors.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Field != tc.field || verr.Message != tc.message {
				t.Errorf("got %s: %q, want %s: %q", verr.Field, verr.Message, tc.field, tc.message)
			}
			if !errors.Is(err, apperrors.ErrInvalidParameters) {
				t.Error("validation errors should match ErrInvalidParameters")
			}
		})
	}
}

func TestStrategyFormulas(t *testing.T) {
	p := models.DefaultParameters() // K=100, S0=100, premium=5

	testCases := []struct {
		id       string
		price    float64
		expected float64
	}{
		{LongCallID, 110, 5},
		{LongCallID, 90, -5},
		{LongCallID, 105, 0},
		{LongPutID, 90, 5},
		{LongPutID, 110, -5},
		{CoveredCallID, 100, 5},
		{CoveredCallID, 130, 5},
		{CoveredCallID, 80, -15},
		{ProtectivePutID, 80, -5},
		{ProtectivePutID, 120, 15},
	}

	for _, tc := range testCases {
		strategy, ok := StrategyByID(tc.id)
		if !ok {
			t.Fatalf("strategy %s missing", tc.id)
		}
		got, err := strategy.CalculatePayoff(tc.price, p)
		if err != nil {
			t.Fatalf("%s at %v: %v", tc.id, tc.price, err)
		}
		if got != tc.expected {
			t.Errorf("%s at %v = %v, want %v", tc.id, tc.price, got, tc.expected)
		}
	}
}

func TestStrategiesReturnsCopies(t *testing.T) {
	first := Strategies()
	if len(first) != 4 {
		t.Fatalf("got %d built-ins, want 4", len(first))
	}
	first[0].Legs[0].Action = models.ActionSell
	first[0].WhenToUse[0] = "changed"

	again, _ := StrategyByID(LongCallID)
	if again.Legs[0].Action != models.ActionBuy || again.WhenToUse[0] == "changed" {
		t.Error("mutating a returned strategy leaked into the catalog")
	}

	if _, ok := StrategyByID("short-strangle"); ok {
		t.Error("unknown id should not be found")
	}
}

func TestCatalog(t *testing.T) {
	straddle := Strategy{
		StrategyInfo: StrategyInfo{ID: "  long-straddle ", Title: "Long Straddle"},
		Payoff: func(s float64, p models.ParameterSet) (float64, error) {
			return math.Abs(s-p.StrikePrice) - 2*p.Premium, nil
		},
	}

	c, err := NewCatalog(straddle)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	if c.Len() != 5 {
		t.Errorf("Len = %d, want 5", c.Len())
	}
	if got, err := c.Get("long-straddle"); err != nil || got.ID != "long-straddle" {
		t.Errorf("Get trimmed id: %v %v", got.ID, err)
	}
	if _, err := c.Get("nope"); !errors.Is(err, apperrors.ErrStrategyNotFound) {
		t.Errorf("expected ErrStrategyNotFound, got %v", err)
	}

	dup := straddle
	dup.ID = LongCallID
	if _, err := NewCatalog(dup); !errors.Is(err, apperrors.ErrInvalidStrategy) {
		t.Errorf("duplicate id: expected ErrInvalidStrategy, got %v", err)
	}

	noPayoff := Strategy{StrategyInfo: StrategyInfo{ID: "empty"}}
	if _, err := NewCatalog(noPayoff); !errors.Is(err, apperrors.ErrInvalidStrategy) {
		t.Errorf("missing payoff: expected ErrInvalidStrategy, got %v", err)
	}
}

func TestGeneratePayoffDataRange(t *testing.T) {
	strategy, _ := StrategyByID(LongCallID)

	points := GeneratePayoffData(strategy, models.DefaultParameters())
	if len(points) != 31 {
		t.Fatalf("got %d points, want 31", len(points))
	}
	for i, pt := range points {
		if want := 70 + 2*float64(i); pt.StockPrice != want {
			t.Fatalf("point %d at %v, want %v", i, pt.StockPrice, want)
		}
	}

	low := models.DefaultParameters()
	low.StrikePrice = 10
	points = GeneratePayoffData(strategy, low)
	if points[0].StockPrice != 0 {
		t.Errorf("first price = %v, want 0", points[0].StockPrice)
	}
	if last := points[len(points)-1].StockPrice; last != 40 {
		t.Errorf("last price = %v, want 40", last)
	}
	if len(points) != 21 {
		t.Errorf("got %d points, want 21", len(points))
	}

	odd := models.DefaultParameters()
	odd.StrikePrice = 15
	points = GeneratePayoffData(strategy, odd)
	if points[0].StockPrice != 0 || points[len(points)-1].StockPrice != 44 {
		t.Errorf("K=15 range = [%v, %v], want [0, 44]", points[0].StockPrice, points[len(points)-1].StockPrice)
	}
}

func TestGeneratePayoffDataExtremeStrikes(t *testing.T) {
	strategy, _ := StrategyByID(LongCallID)

	testCases := []struct {
		name      string
		strike    float64
		wantLen   int
		wantFirst float64
		wantLast  float64
	}{
		{"fractional strike", 100.3, 31, 70.3, 130.3},
		{"fractional low strike", 29.5, 30, 0, 58},
		{"tiny strike", 0.01, 16, 0, 30},
		{"large strike", 1e9, 31, 1e9 - 30, 1e9 + 30},
		// Only multiples of 16 are representable near 1e17.
		{"beyond float resolution", 1e17, 5, 1e17 - 32, 1e17 + 32},
		{"max float", math.MaxFloat64, 1, math.MaxFloat64, math.MaxFloat64},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := models.DefaultParameters()
			p.StrikePrice = tc.strike
			p.CurrentPrice = tc.strike
			if err := ValidateParameters(p); err != nil {
				t.Fatalf("strike %v should validate: %v", tc.strike, err)
			}

			done := make(chan []models.PayoffPoint, 1)
			go func() { done <- GeneratePayoffData(strategy, p) }()

			var points []models.PayoffPoint
			select {
			case points = <-done:
			case <-time.After(3 * time.Second):
				t.Fatalf("curve for strike %v did not finish", tc.strike)
			}

			if len(points) != tc.wantLen {
				t.Fatalf("got %d points, want %d", len(points), tc.wantLen)
			}
			if math.Abs(points[0].StockPrice-tc.wantFirst) > 1e-9*math.Max(1, tc.wantFirst) {
				t.Errorf("first price = %v, want %v", points[0].StockPrice, tc.wantFirst)
			}
			if last := points[len(points)-1].StockPrice; math.Abs(last-tc.wantLast) > 1e-9*math.Max(1, tc.wantLast) {
				t.Errorf("last price = %v, want %v", last, tc.wantLast)
			}
			for i := 1; i < len(points); i++ {
				if points[i].StockPrice <= points[i-1].StockPrice {
					t.Fatalf("prices not strictly ascending at %d: %v then %v", i, points[i-1].StockPrice, points[i].StockPrice)
				}
			}
		})
	}
}

func TestEngineLogsCollapsedSamples(t *testing.T) {
	strategy, _ := StrategyByID(LongCallID)
	var logs bytes.Buffer
	engine := NewEngine(zerolog.New(&logs), nil)

	p := models.DefaultParameters()
	engine.GeneratePayoffData(strategy, p)
	if strings.Contains(logs.String(), "curve_resolution_exceeded") {
		t.Errorf("ordinary strike should not log collapsed samples:\n%s", logs.String())
	}

	p.StrikePrice = 1e17
	engine.GeneratePayoffData(strategy, p)
	for _, want := range []string{`"event":"curve_resolution_exceeded"`, `"collapsed":28`, `"points":5`} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("log missing %s:\n%s", want, logs.String())
		}
	}
}

func TestGeneratePayoffDataDeterministic(t *testing.T) {
	strategy, _ := StrategyByID(ProtectivePutID)
	p := models.ParameterSet{StrikePrice: 95, CurrentPrice: 75, Premium: 6, DaysToExpiry: 14, ImpliedVolatility: 80, InterestRate: 4}

	a := GeneratePayoffData(strategy, p)
	b := GeneratePayoffData(strategy, p)
	if len(a) != len(b) {
		t.Fatal("lengths differ")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("point %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

type countingSink struct {
	failures map[string]int
}

func (s *countingSink) RecordPayoffFailure(id string) {
	if s.failures == nil {
		s.failures = map[string]int{}
	}
	s.failures[id]++
}

func TestEngineReplacesFailuresWithZero(t *testing.T) {
	failing := Strategy{
		StrategyInfo: StrategyInfo{ID: "broken"},
		Payoff: func(s float64, p models.ParameterSet) (float64, error) {
			return 0, errors.New("boom")
		},
	}
	panicking := Strategy{
		StrategyInfo: StrategyInfo{ID: "panicky"},
		Payoff: func(s float64, p models.ParameterSet) (float64, error) {
			panic("index out of range")
		},
	}
	nonFinite := Strategy{
		StrategyInfo: StrategyInfo{ID: "nan"},
		Payoff: func(s float64, p models.ParameterSet) (float64, error) {
			if s > p.StrikePrice {
				return math.NaN(), nil
			}
			return 1, nil
		},
	}

	var logs bytes.Buffer
	sink := &countingSink{}
	engine := NewEngine(zerolog.New(&logs), sink)
	p := models.DefaultParameters()

	for _, strategy := range []Strategy{failing, panicking} {
		points := engine.GeneratePayoffData(strategy, p)
		if len(points) != 31 {
			t.Fatalf("%s: got %d points, want 31", strategy.ID, len(points))
		}
		for _, pt := range points {
			if pt.ProfitLoss != 0 {
				t.Fatalf("%s: point at %v = %v, want 0", strategy.ID, pt.StockPrice, pt.ProfitLoss)
			}
		}
		if sink.failures[strategy.ID] != 31 {
			t.Errorf("%s: sink saw %d failures, want 31", strategy.ID, sink.failures[strategy.ID])
		}
	}

	points := engine.GeneratePayoffData(nonFinite, p)
	if points[0].ProfitLoss != 1 || points[30].ProfitLoss != 0 {
		t.Errorf("non-finite samples should be zeroed, got %v and %v", points[0].ProfitLoss, points[30].ProfitLoss)
	}
	if sink.failures["nan"] != 15 {
		t.Errorf("nan: sink saw %d failures, want 15", sink.failures["nan"])
	}

	if !strings.Contains(logs.String(), `"event":"payoff_failure"`) || !strings.Contains(logs.String(), `"strategy":"broken"`) {
		t.Errorf("failures were not logged:\n%s", logs.String())
	}
}

func TestEngineNilSink(t *testing.T) {
	engine := NewEngine(zerolog.Nop(), nil)
	got := engine.SafePayoff(100, Strategy{StrategyInfo: StrategyInfo{ID: "nil"}}, models.DefaultParameters())
	if got != 0 {
		t.Errorf("missing payoff function should yield 0, got %v", got)
	}
}

func TestEstimateGreeks(t *testing.T) {
	p := models.DefaultParameters()
	r := EstimateGreeks(p)

	if r.Moneyness != 1 {
		t.Errorf("moneyness = %v, want 1", r.Moneyness)
	}
	if r.Delta.Call != 0.5 || r.Delta.Put != -0.5 {
		t.Errorf("ATM deltas = %v/%v, want 0.5/-0.5", r.Delta.Call, r.Delta.Put)
	}
	if math.Abs(r.Gamma.Call-0.3) > 1e-12 {
		t.Errorf("ATM gamma = %v, want 0.3", r.Gamma.Call)
	}
	if want := -5 * 0.03 * (30.0 / 30.0); math.Abs(r.Theta.Call-want) > 1e-12 {
		t.Errorf("theta = %v, want %v", r.Theta.Call, want)
	}
	if want := 5 * 0.2 * math.Sqrt(30.0/365.0); math.Abs(r.Vega.Call-want) > 1e-12 {
		t.Errorf("vega = %v, want %v", r.Vega.Call, want)
	}
	if math.Abs(r.Rho.Call-0.05) > 1e-12 || math.Abs(r.Rho.Put+0.05) > 1e-12 {
		t.Errorf("rho = %v/%v, want 0.05/-0.05", r.Rho.Call, r.Rho.Put)
	}
	if !r.Delta.Paired || !r.Rho.Paired || r.Gamma.Paired {
		t.Error("only Delta and Rho are paired")
	}
}

func TestDeltaBuckets(t *testing.T) {
	testCases := []struct {
		current  float64
		callWant float64
		putWant  float64
	}{
		{120, 0.7, -0.3},
		{105, 0.7, -0.3}, // moneyness exactly 1.05 is not below 1.05
		{103, 0.7, -0.5},
		{100, 0.5, -0.5},
		{96, 0.5, -0.7},
		{95, 0.3, -0.7}, // moneyness exactly 0.95 is not above 0.95
		{80, 0.3, -0.7},
	}

	for _, tc := range testCases {
		p := models.DefaultParameters()
		p.CurrentPrice = tc.current
		r := EstimateGreeks(p)
		if r.Delta.Call != tc.callWant || r.Delta.Put != tc.putWant {
			t.Errorf("S=%v: deltas %v/%v, want %v/%v", tc.current, r.Delta.Call, r.Delta.Put, tc.callWant, tc.putWant)
		}
	}
}

func TestGammaFloor(t *testing.T) {
	p := models.DefaultParameters()
	p.CurrentPrice = 200
	if g := EstimateGreeks(p).Gamma.Call; g != 0.1 {
		t.Errorf("far from the money gamma = %v, want floor 0.1", g)
	}
}

func TestPresets(t *testing.T) {
	all := Presets()
	if len(all) != 7 {
		t.Fatalf("got %d presets, want 7", len(all))
	}
	for _, p := range all {
		if err := ValidateParameters(p.Params); err != nil {
			t.Errorf("preset %s is invalid: %v", p.Key, err)
		}
	}

	for _, key := range []string{"OTMCall", "otm-call", "otm_call", " OTM Call "} {
		p, err := PresetByKey(key)
		if err != nil || p.Params.StrikePrice != 105 {
			t.Errorf("PresetByKey(%q) = %+v, %v", key, p, err)
		}
	}
	if _, err := PresetByKey("moon-shot"); !errors.Is(err, apperrors.ErrPresetNotFound) {
		t.Errorf("expected ErrPresetNotFound, got %v", err)
	}

	all[0].Params.StrikePrice = 1
	if again, _ := PresetByKey("ATMOption"); again.Params.StrikePrice != 100 {
		t.Error("mutating Presets() leaked into the table")
	}
}

func TestExplainers(t *testing.T) {
	for _, g := range models.AllGreeks() {
		e, err := ExplainGreek(g)
		if err != nil {
			t.Fatalf("ExplainGreek(%s): %v", g, err)
		}
		if e.Symbol != g.Symbol() || e.Examples == "" || e.Factors == "" || e.Trading == "" {
			t.Errorf("incomplete explanation for %s: %+v", g, e)
		}
	}

	if g, err := ParseGreek(" rho "); err != nil || g != models.Rho {
		t.Errorf("ParseGreek(rho) = %v, %v", g, err)
	}
	if _, err := ParseGreek("omega"); !errors.Is(err, apperrors.ErrUnknownGreek) {
		t.Errorf("expected ErrUnknownGreek, got %v", err)
	}

	help := ParameterHelp()
	if len(help) != 7 {
		t.Fatalf("got %d parameter entries, want 7", len(help))
	}
	for _, info := range help {
		if info.Min > info.Max || info.Step <= 0 {
			t.Errorf("bad slider range for %s", info.Field)
		}
	}
}

func TestGreeksJSONKeepsPairedPut(t *testing.T) {
	p := models.DefaultParameters()
	p.Premium = 0

	greeks := EstimateGreeks(p)
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(greeks)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var shape struct {
		Rho   map[string]interface{} `json:"rho"`
		Delta map[string]interface{} `json:"delta"`
	}
	if err := jsoniter.Unmarshal(data, &shape); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for name, value := range map[string]map[string]interface{}{"rho": shape.Rho, "delta": shape.Delta} {
		if _, ok := value["put"]; !ok {
			t.Errorf("%s is missing its put value: %s", name, data)
		}
	}
}
