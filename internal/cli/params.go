package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"options-lab/internal/models"
	"options-lab/internal/options"
)

type paramFlag struct {
	name  string
	usage string
	field func(p *models.ParameterSet) *float64
}

var paramFlags = []paramFlag{
	{"strike", "strike price", func(p *models.ParameterSet) *float64 { return &p.StrikePrice }},
	{"current", "current stock price", func(p *models.ParameterSet) *float64 { return &p.CurrentPrice }},
	{"premium", "option premium", func(p *models.ParameterSet) *float64 { return &p.Premium }},
	{"days", "days to expiry", func(p *models.ParameterSet) *float64 { return &p.DaysToExpiry }},
	{"iv", "implied volatility in percent", func(p *models.ParameterSet) *float64 { return &p.ImpliedVolatility }},
	{"rate", "interest rate in percent", func(p *models.ParameterSet) *float64 { return &p.InterestRate }},
	{"yield", "dividend yield in percent", func(p *models.ParameterSet) *float64 { return &p.DividendYield }},
}

// addParamFlags registers the parameter flags shared by the calculators.
func addParamFlags(cmd *cobra.Command) {
	for _, f := range paramFlags {
		cmd.Flags().Float64(f.name, 0, f.usage)
	}
	cmd.Flags().String("preset", "", "start from a preset (see 'presets')")
	cmd.Flags().String("scenario", "", "start from a saved scenario, by name or id")
}

// resolveParams builds the parameter set for a command: configured defaults,
// then the preset, then the saved scenario, then any explicit flags. The
// result is validated.
func (app *App) resolveParams(cmd *cobra.Command) (models.ParameterSet, error) {
	p := app.Config.Defaults

	if key, _ := cmd.Flags().GetString("preset"); key != "" {
		preset, err := options.PresetByKey(key)
		if err != nil {
			return p, err
		}
		p = preset.Params
	}

	if ref, _ := cmd.Flags().GetString("scenario"); ref != "" {
		scenario, err := app.findScenario(cmd, ref)
		if err != nil {
			return p, err
		}
		p = scenario.Params
	}

	applyParamFlags(cmd.Flags(), &p)

	err := options.ValidateParameters(p)
	app.Metrics.RecordValidation(err == nil)
	return p, err
}

// applyParamFlags copies every flag the user set onto p.
func applyParamFlags(flags *pflag.FlagSet, p *models.ParameterSet) {
	for _, f := range paramFlags {
		if !flags.Changed(f.name) {
			continue
		}
		if v, err := flags.GetFloat64(f.name); err == nil {
			*f.field(p) = v
		}
	}
}

func printParams(output *Output, p models.ParameterSet) {
	output.Printf("  Strike Price:    %s\n", output.Money(p.StrikePrice))
	output.Printf("  Current Price:   %s\n", output.Money(p.CurrentPrice))
	output.Printf("  Premium:         %s\n", output.Money(p.Premium))
	output.Printf("  Days to Expiry:  %s\n", FormatDays(p.DaysToExpiry))
	output.Printf("  Implied Vol:     %s\n", FormatPercent(p.ImpliedVolatility))
	output.Printf("  Interest Rate:   %s\n", FormatPercent(p.InterestRate))
	output.Printf("  Dividend Yield:  %s\n", FormatPercent(p.DividendYield))
}
