package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"options-lab/internal/models"
	"options-lab/internal/options"
)

// addReferenceCommands adds the explainer and lookup commands.
func addReferenceCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newExplainCmd(app))
	rootCmd.AddCommand(newParamsCmd(app))
	rootCmd.AddCommand(newPresetsCmd(app))
}

func newExplainCmd(app *App) *cobra.Command {
	names := make([]string, 0, len(models.AllGreeks()))
	for _, g := range models.AllGreeks() {
		names = append(names, strings.ToLower(string(g)))
	}

	return &cobra.Command{
		Use:       "explain <greek>",
		Short:     "Explain what a Greek measures",
		Example:   "  options-lab explain theta",
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			g, err := options.ParseGreek(args[0])
			if err != nil {
				return err
			}
			if output.IsJSON() {
				e, err := options.ExplainGreek(g)
				if err != nil {
					return err
				}
				return output.JSON(e)
			}
			return showExplanation(output, g)
		},
	}
}

func showExplanation(output *Output, g models.Greek) error {
	e, err := options.ExplainGreek(g)
	if err != nil {
		return err
	}

	output.Bold("%s (%s)", e.Greek, e.Symbol)
	output.Info("Examples")
	output.Printf("  %s\n", e.Examples)
	output.Info("What moves it")
	output.Printf("  %s\n", e.Factors)
	output.Info("Trading with it")
	output.Printf("  %s\n", e.Trading)
	return nil
}

func newParamsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Describe the input parameters and their ranges",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			help := options.ParameterHelp()
			if output.IsJSON() {
				return output.JSON(help)
			}

			for i, info := range help {
				if i > 0 {
					output.Println()
				}
				output.Bold("%s  %s", info.Title, output.DimText(fmt.Sprintf("[%g to %g, step %g]", info.Min, info.Max, info.Step)))
				output.Printf("  %s\n", info.Content)
			}
			return nil
		},
	}
}

func newPresetsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in parameter presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			presets := options.Presets()
			if output.IsJSON() {
				return output.JSON(presets)
			}

			table := NewTable(output, "KEY", "LABEL", "STRIKE", "CURRENT", "PREMIUM", "DAYS", "IV", "RATE", "YIELD")
			for _, p := range presets {
				ps := p.Params
				table.AddRow(
					p.Key, p.Label,
					FormatPrice(ps.StrikePrice), FormatPrice(ps.CurrentPrice), FormatPrice(ps.Premium),
					FormatDays(ps.DaysToExpiry),
					FormatPercent(ps.ImpliedVolatility), FormatPercent(ps.InterestRate), FormatPercent(ps.DividendYield),
				)
			}
			table.Render()
			output.Println()
			output.Dim("Use --preset <key> with payoff, greeks or validate; keys are case-insensitive.")
			return nil
		},
	}
}
