package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apperrors "options-lab/internal/errors"
	"options-lab/internal/models"
	"options-lab/internal/options"
)

// payoffResult mirrors the HTTP payoff response.
type payoffResult struct {
	Strategy options.Strategy     `json:"strategy"`
	Params   models.ParameterSet  `json:"params"`
	Points   []models.PayoffPoint `json:"points"`
	Summary  models.CurveSummary  `json:"summary"`
}

// addCalculatorCommands adds the strategy, payoff, Greeks and validation commands.
func addCalculatorCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newStrategiesCmd(app))
	rootCmd.AddCommand(newPayoffCmd(app))
	rootCmd.AddCommand(newGreeksCmd(app))
	rootCmd.AddCommand(newValidateCmd(app))
}

func newStrategiesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "strategies",
		Aliases: []string{"strategy"},
		Short:   "Browse the strategy catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available strategies",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			strategies := app.Catalog.All()
			if output.IsJSON() {
				return output.JSON(strategies)
			}

			table := NewTable(output, "ID", "TITLE", "OUTLOOK", "COMPLEXITY", "RISK")
			for _, s := range strategies {
				table.AddRow(s.ID, s.Title, string(s.Category), string(s.Complexity), string(s.RiskLevel))
			}
			table.Render()
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show a strategy's legs and characteristics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			s, err := app.Catalog.Get(args[0])
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(s)
			}
			showStrategy(output, s)
			return nil
		},
	})

	return cmd
}

func showStrategy(output *Output, s options.Strategy) {
	lines := []string{
		s.Description,
		"",
		fmt.Sprintf("Outlook: %s   Complexity: %s   Risk: %s", s.Category, s.Complexity, s.RiskLevel),
		"",
		"Legs:",
	}
	for _, leg := range s.Legs {
		lines = append(lines, "  "+describeLeg(leg))
	}
	lines = append(lines,
		"",
		"Max Profit: "+s.MaxProfit,
		"Max Loss:   "+s.MaxLoss,
		"Breakeven:  "+s.Breakeven,
	)
	output.Box(s.Title, lines)

	if len(s.WhenToUse) > 0 {
		output.Println()
		output.Bold("When to use")
		for _, w := range s.WhenToUse {
			output.Printf("  • %s\n", w)
		}
	}
}

func describeLeg(leg models.Leg) string {
	desc := fmt.Sprintf("%s %s", leg.Action, leg.Instrument)
	if leg.Strike != nil {
		desc += fmt.Sprintf(" @ %s", FormatPrice(*leg.Strike))
	}
	if leg.Premium != nil {
		desc += fmt.Sprintf(" (premium %s)", FormatPrice(*leg.Premium))
	}
	return desc
}

func newPayoffCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payoff <strategy-id>",
		Short: "Show the profit and loss at expiration",
		Long: `Sample the strategy's profit and loss at expiration every 2 points
from strike-30 (floored at 0) to strike+30.`,
		Example: `  options-lab payoff long-call
  options-lab payoff covered-call --strike 105 --premium 2.5
  options-lab payoff protective-put --preset crash-scenario --table`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			strategy, err := app.Catalog.Get(args[0])
			if err != nil {
				return err
			}
			p, err := app.resolveParams(cmd)
			if err != nil {
				return err
			}

			points := app.Engine.GeneratePayoffData(strategy, p)
			app.Metrics.RecordCurve(strategy.ID)
			result := payoffResult{
				Strategy: strategy,
				Params:   p,
				Points:   points,
				Summary:  options.Summarize(points, strategy, p),
			}

			if output.IsJSON() {
				return output.JSON(result)
			}

			chart, _ := cmd.Flags().GetBool("chart")
			table, _ := cmd.Flags().GetBool("table")
			app.showPayoff(output, result, chart, table)
			return nil
		},
	}

	addParamFlags(cmd)
	cmd.Flags().Bool("chart", true, "draw the payoff chart")
	cmd.Flags().Bool("table", false, "print every sampled point")
	return cmd
}

func (app *App) showPayoff(output *Output, r payoffResult, chart, table bool) {
	output.Bold("%s  %s", r.Strategy.Title, output.DimText("("+r.Strategy.ID+")"))
	output.Printf("  Strike %s · Current %s · Premium %s · %s days\n",
		output.Money(r.Params.StrikePrice), output.Money(r.Params.CurrentPrice),
		output.Money(r.Params.Premium), FormatDays(r.Params.DaysToExpiry))
	output.Println()

	if chart {
		for _, line := range RenderPayoffChart(r.Points, r.Params.StrikePrice, app.Config.UI.ChartWidth, app.Config.UI.ChartHeight) {
			output.Println(line)
		}
		output.Println()
	}

	if table {
		t := NewTable(output, "STOCK PRICE", "P&L")
		for _, pt := range r.Points {
			t.AddRow(PadLeft(FormatPrice(pt.StockPrice), 11), output.FormatPnL(pt.ProfitLoss))
		}
		t.Render()
		output.Println()
	}

	s := r.Summary
	breakevens := "none in range"
	if len(s.Breakevens) > 0 {
		parts := make([]string, len(s.Breakevens))
		for i, b := range s.Breakevens {
			parts[i] = FormatPrice(b)
		}
		breakevens = strings.Join(parts, ", ")
	}
	premiumLabel := "Net Debit"
	if s.NetPremium > 0 {
		premiumLabel = "Net Credit"
	}
	net := s.NetPremium
	if net < 0 {
		net = -net
	}

	output.Box("Summary", []string{
		fmt.Sprintf("Max Profit (in range): %s at %s", output.FormatPnL(s.MaxProfit), FormatPrice(s.MaxProfitAt)),
		fmt.Sprintf("Max Loss (in range):   %s at %s", output.FormatPnL(s.MaxLoss), FormatPrice(s.MaxLossAt)),
		fmt.Sprintf("Breakeven:             %s", breakevens),
		fmt.Sprintf("%-22s %s", premiumLabel+":", output.Money(net)),
		"",
		"Max Profit: " + r.Strategy.MaxProfit,
		"Max Loss:   " + r.Strategy.MaxLoss,
		"Breakeven:  " + r.Strategy.Breakeven,
	})
}

func newGreeksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "greeks",
		Short: "Estimate simplified option Greeks",
		Long: `Estimate Delta, Gamma, Theta, Vega and Rho with classroom rules of thumb.
These are not Black-Scholes values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			p, err := app.resolveParams(cmd)
			if err != nil {
				return err
			}

			greeks := options.EstimateGreeks(p)
			app.Metrics.RecordGreeks()

			explain, _ := cmd.Flags().GetBool("explain")
			if output.IsJSON() {
				if !explain {
					return output.JSON(greeks)
				}
				explanations := make([]options.GreekExplanation, 0, len(models.AllGreeks()))
				for _, g := range models.AllGreeks() {
					e, err := options.ExplainGreek(g)
					if err != nil {
						return err
					}
					explanations = append(explanations, e)
				}
				return output.JSON(map[string]interface{}{"greeks": greeks, "explanations": explanations})
			}

			showGreeks(output, greeks)
			if explain {
				for _, g := range models.AllGreeks() {
					output.Println()
					if err := showExplanation(output, g); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}

	addParamFlags(cmd)
	cmd.Flags().Bool("explain", false, "include an explanation of each Greek")
	return cmd
}

func showGreeks(output *Output, r models.GreeksResult) {
	output.Printf("Moneyness %.4f · %.4f years to expiry\n\n", r.Moneyness, r.TimeToExpiryYears)

	table := NewTable(output, "GREEK", "", "CALL", "PUT")
	for _, g := range models.AllGreeks() {
		v := r.Value(g)
		put := "-"
		if v.Paired {
			put = FormatGreek(v.Put)
		}
		table.AddRow(string(g), g.Symbol(), FormatGreek(v.Call), put)
	}
	table.Render()
	output.Println()
	output.Dim("Simplified estimates for learning; unpaired Greeks apply to calls and puts alike.")
}

func newValidateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a parameter set against the input rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			p, err := app.resolveParams(cmd)

			var verr *apperrors.ValidationError
			if err != nil && !apperrors.As(err, &verr) {
				return err
			}

			if output.IsJSON() {
				result := map[string]interface{}{"valid": err == nil, "params": p}
				if verr != nil {
					result["field"] = verr.Field
					result["message"] = verr.Message
				}
				if jerr := output.JSON(result); jerr != nil {
					return jerr
				}
				return err
			}

			if verr != nil {
				output.Error("✗ %s", verr.Message)
				return err
			}
			output.Success("✓ Parameters are valid")
			printParams(output, p)
			return nil
		},
	}

	addParamFlags(cmd)
	return cmd
}
