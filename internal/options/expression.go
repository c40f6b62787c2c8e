package options

import (
	"fmt"
	"strings"

	"github.com/Knetic/govaluate"

	apperrors "options-lab/internal/errors"
	"options-lab/internal/models"
)

// ExpressionSpec defines a strategy whose payoff is a formula, typically
// loaded from the [[strategies]] tables of the config file. The formula sees
// the settlement price as s and the parameter set as strike, current,
// premium, days, iv, rate and yield, and may call max, min and abs.
type ExpressionSpec struct {
	ID          string       `mapstructure:"id" json:"id"`
	Title       string       `mapstructure:"title" json:"title"`
	Description string       `mapstructure:"description" json:"description"`
	Category    string       `mapstructure:"category" json:"category"`
	Complexity  string       `mapstructure:"complexity" json:"complexity"`
	RiskLevel   string       `mapstructure:"risk_level" json:"risk_level"`
	Expression  string       `mapstructure:"expression" json:"expression"`
	WhenToUse   []string     `mapstructure:"when_to_use" json:"when_to_use"`
	Legs        []models.Leg `mapstructure:"legs" json:"legs"`
}

var expressionVars = map[string]bool{
	"s": true, "strike": true, "current": true, "premium": true,
	"days": true, "iv": true, "rate": true, "yield": true,
}

var expressionFuncs = map[string]govaluate.ExpressionFunction{
	"max": func(args ...interface{}) (interface{}, error) {
		return foldNumbers("max", args, func(a, b float64) bool { return b > a })
	},
	"min": func(args ...interface{}) (interface{}, error) {
		return foldNumbers("min", args, func(a, b float64) bool { return b < a })
	},
	"abs": func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("abs expects 1 argument, got %d", len(args))
		}
		v, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("abs: %v is not a number", args[0])
		}
		if v < 0 {
			return -v, nil
		}
		return v, nil
	},
}

func foldNumbers(name string, args []interface{}, better func(a, b float64) bool) (interface{}, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%s expects at least 1 argument", name)
	}
	var acc float64
	for i, a := range args {
		v, ok := a.(float64)
		if !ok {
			return nil, fmt.Errorf("%s: %v is not a number", name, a)
		}
		if i == 0 || better(acc, v) {
			acc = v
		}
	}
	return acc, nil
}

// CompileExpression turns spec into a Strategy. Syntax errors, unknown
// variables and invalid classification values are rejected here, so only
// runtime failures can reach the payoff engine.
func CompileExpression(spec ExpressionSpec) (Strategy, error) {
	id := strings.TrimSpace(spec.ID)
	if id == "" {
		return Strategy{}, apperrors.NewStrategyError(spec.Title, "missing id", nil)
	}
	if strings.TrimSpace(spec.Expression) == "" {
		return Strategy{}, apperrors.NewStrategyError(id, "missing expression", nil)
	}

	category := models.Category(spec.Category)
	if !category.Valid() {
		return Strategy{}, apperrors.NewStrategyError(id, fmt.Sprintf("unknown category %q", spec.Category), nil)
	}
	complexity := models.Complexity(spec.Complexity)
	if complexity == "" {
		complexity = models.ComplexityAdvanced
	}
	if !complexity.Valid() {
		return Strategy{}, apperrors.NewStrategyError(id, fmt.Sprintf("unknown complexity %q", spec.Complexity), nil)
	}
	risk := models.RiskLevel(spec.RiskLevel)
	if !risk.Valid() {
		return Strategy{}, apperrors.NewStrategyError(id, fmt.Sprintf("unknown risk level %q", spec.RiskLevel), nil)
	}

	expr, err := govaluate.NewEvaluableExpressionWithFunctions(spec.Expression, expressionFuncs)
	if err != nil {
		return Strategy{}, apperrors.NewStrategyError(id, "cannot parse expression", err)
	}
	for _, v := range expr.Vars() {
		if !expressionVars[v] {
			return Strategy{}, apperrors.NewStrategyError(id, fmt.Sprintf("unknown variable %q", v), nil)
		}
	}

	for _, leg := range spec.Legs {
		if leg.Action != models.ActionBuy && leg.Action != models.ActionSell {
			return Strategy{}, apperrors.NewStrategyError(id, fmt.Sprintf("unknown leg action %q", leg.Action), nil)
		}
		switch leg.Instrument {
		case models.InstrumentCall, models.InstrumentPut, models.InstrumentStock:
		default:
			return Strategy{}, apperrors.NewStrategyError(id, fmt.Sprintf("unknown leg instrument %q", leg.Instrument), nil)
		}
	}

	title := spec.Title
	if title == "" {
		title = id
	}

	return Strategy{
		StrategyInfo: StrategyInfo{
			ID:          id,
			Title:       title,
			Description: spec.Description,
			Category:    category,
			Complexity:  complexity,
			RiskLevel:   risk,
			MaxProfit:   "See chart",
			MaxLoss:     "See chart",
			Breakeven:   "See chart",
			WhenToUse:   append([]string(nil), spec.WhenToUse...),
		},
		Legs:   append([]models.Leg(nil), spec.Legs...),
		Payoff: expressionPayoff(expr),
	}, nil
}

func expressionPayoff(expr *govaluate.EvaluableExpression) PayoffFunc {
	return func(s float64, p models.ParameterSet) (float64, error) {
		result, err := expr.Evaluate(map[string]interface{}{
			"s":       s,
			"strike":  p.StrikePrice,
			"current": p.CurrentPrice,
			"premium": p.Premium,
			"days":    p.DaysToExpiry,
			"iv":      p.ImpliedVolatility,
			"rate":    p.InterestRate,
			"yield":   p.DividendYield,
		})
		if err != nil {
			return 0, err
		}
		v, ok := result.(float64)
		if !ok {
			return 0, fmt.Errorf("expression returned %T, want a number", result)
		}
		return v, nil
	}
}

// CompileExpressions compiles every spec, stopping at the first bad one.
func CompileExpressions(specs []ExpressionSpec) ([]Strategy, error) {
	out := make([]Strategy, 0, len(specs))
	for _, spec := range specs {
		s, err := CompileExpression(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
