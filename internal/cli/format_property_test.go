package cli

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"options-lab/internal/models"
)

var groupedPattern = regexp.MustCompile(`^\d{1,3}(,\d{3})*$`)

// For any amount, FormatCurrency should:
// 1. Start with the symbol (or -symbol for negative amounts)
// 2. Have exactly 2 decimal places
// 3. Group the integer part in threes
// 4. Preserve the value to the cent
func TestPropertyCurrencyFormatting(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("FormatCurrency produces grouped two-decimal output", prop.ForAll(
		func(amount float64) bool {
			formatted := FormatCurrency(amount, "$")

			body := strings.TrimPrefix(formatted, "-")
			if !strings.HasPrefix(body, "$") {
				t.Logf("Expected $ prefix for %f, got %s", amount, formatted)
				return false
			}
			if strings.HasPrefix(formatted, "-") && math.Round(amount*100) == 0 {
				t.Logf("Negative zero for %f: %s", amount, formatted)
				return false
			}

			parts := strings.Split(strings.TrimPrefix(body, "$"), ".")
			if len(parts) != 2 || len(parts[1]) != 2 {
				t.Logf("Expected 2 decimal places for %f, got %s", amount, formatted)
				return false
			}
			if !groupedPattern.MatchString(parts[0]) {
				t.Logf("Invalid grouping for %f: %s", amount, formatted)
				return false
			}
			return true
		},
		gen.Float64Range(-1e12, 1e12),
	))

	properties.Property("FormatCurrency preserves value", prop.ForAll(
		func(amount float64) bool {
			formatted := FormatCurrency(amount, "$")
			parsed := parseCurrency(formatted, "$")

			roundedAmount := math.Round(amount*100) / 100
			if diff := math.Abs(parsed - roundedAmount); diff > 0.01 {
				t.Logf("Value not preserved: original=%f, formatted=%s, parsed=%f", amount, formatted, parsed)
				return false
			}
			return true
		},
		gen.Float64Range(-1e9, 1e9),
	))

	properties.Property("FormatPnL signs gains only", prop.ForAll(
		func(pnl float64) bool {
			formatted := FormatPnL(pnl, "$")
			switch {
			case math.Round(pnl*100) > 0:
				return strings.HasPrefix(formatted, "+$")
			case math.Round(pnl*100) < 0:
				return strings.HasPrefix(formatted, "-$")
			default:
				return formatted == "$0.00"
			}
		},
		gen.Float64Range(-1000, 1000),
	))

	properties.TestingRun(t)
}

// For any valid strike and height, the chart has one line per row plus the
// axis and labels, and every sample is plotted.
func TestPropertyPayoffChartShape(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("chart has height+2 lines and marks samples", prop.ForAll(
		func(strike, premium float64, height int) bool {
			p := models.DefaultParameters()
			p.StrikePrice = strike
			p.Premium = premium

			var points []models.PayoffPoint
			for s := math.Max(0, strike-30); s <= strike+30; s += 2 {
				points = append(points, models.PayoffPoint{StockPrice: s, ProfitLoss: math.Max(s-strike, 0) - premium})
			}

			lines := RenderPayoffChart(points, strike, 61, height)
			if len(lines) != height+2 {
				t.Logf("Expected %d lines, got %d", height+2, len(lines))
				return false
			}
			return strings.Contains(strings.Join(lines, "\n"), "*")
		},
		gen.Float64Range(1, 500),
		gen.Float64Range(0, 30),
		gen.IntRange(3, 30),
	))

	properties.TestingRun(t)
}

func parseCurrency(s, symbol string) float64 {
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, symbol)
	s = strings.ReplaceAll(s, ",", "")

	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	if negative {
		parsed = -parsed
	}
	return parsed
}

func TestCurrencyFormatExamples(t *testing.T) {
	testCases := []struct {
		amount   float64
		expected string
	}{
		{0, "$0.00"},
		{1, "$1.00"},
		{100, "$100.00"},
		{1000, "$1,000.00"},
		{100000, "$100,000.00"},
		{1000000, "$1,000,000.00"},
		{-1234.56, "-$1,234.56"},
		{12345678.90, "$12,345,678.90"},
		{2.345, "$2.35"},
		{-0.001, "$0.00"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			result := FormatCurrency(tc.amount, "$")
			if result != tc.expected {
				t.Errorf("FormatCurrency(%f) = %s, want %s", tc.amount, result, tc.expected)
			}
		})
	}
}

func TestFormatHelpers(t *testing.T) {
	testCases := []struct {
		name     string
		got      string
		expected string
	}{
		{"percent", FormatPercent(25), "25.00%"},
		{"days whole", FormatDays(30), "30"},
		{"days fraction", FormatDays(0.5), "0.5"},
		{"greek", FormatGreek(-0.15), "-0.1500"},
		{"pnl gain", FormatPnL(5, "€"), "+€5.00"},
		{"pnl loss", FormatPnL(-5, "€"), "-€5.00"},
		{"truncate", TruncateString("protective put hedge", 10), "protect..."},
		{"pad", PadLeft("Δ", 3), "  Δ"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.expected {
				t.Errorf("got %q, want %q", tc.got, tc.expected)
			}
		})
	}
}
