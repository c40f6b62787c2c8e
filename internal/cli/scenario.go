package cli

import (
	"github.com/spf13/cobra"

	apperrors "options-lab/internal/errors"
	"options-lab/internal/logging"
	"options-lab/internal/models"
	"options-lab/internal/security"
	"options-lab/internal/store"
)

// addScenarioCommands adds the saved-scenario commands.
func addScenarioCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:     "scenario",
		Aliases: []string{"scenarios"},
		Short:   "Save and reuse parameter sets",
		Long: `Scenarios are named parameter sets kept in a local SQLite database.
Any calculator accepts --scenario <name> to start from one.`,
	}

	cmd.AddCommand(newScenarioSaveCmd(app))
	cmd.AddCommand(newScenarioListCmd(app))
	cmd.AddCommand(newScenarioShowCmd(app))
	cmd.AddCommand(newScenarioDeleteCmd(app))

	rootCmd.AddCommand(cmd)
}

// findScenario resolves ref as an id first, then as a name.
func (app *App) findScenario(cmd *cobra.Command, ref string) (*models.Scenario, error) {
	st, err := app.scenarioStore()
	if err != nil {
		return nil, err
	}

	if security.NewInputValidator(false).ValidateScenarioID(ref) == nil {
		scenario, err := st.GetScenario(cmd.Context(), ref)
		if err == nil || !apperrors.Is(err, apperrors.ErrScenarioNotFound) {
			return scenario, err
		}
	}
	return st.GetScenarioByName(cmd.Context(), ref)
}

func newScenarioSaveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save the current parameters under a name",
		Example: `  options-lab scenario save "earnings week" --preset earnings-week --strike 110
  options-lab scenario save baseline --notes "defaults before the rate cut"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			p, err := app.resolveParams(cmd)
			if err != nil {
				return err
			}
			st, err := app.scenarioStore()
			if err != nil {
				return err
			}

			notes, _ := cmd.Flags().GetString("notes")
			force, _ := cmd.Flags().GetBool("force")
			scenario := &models.Scenario{Name: args[0], Notes: notes, Params: p}

			existing, err := st.GetScenarioByName(cmd.Context(), args[0])
			switch {
			case err == nil && !force:
				return apperrors.Wrapf(apperrors.ErrScenarioExists, "%q (use --force to overwrite)", args[0])
			case err == nil:
				scenario.ID = existing.ID
				scenario.CreatedAt = existing.CreatedAt
			case !apperrors.Is(err, apperrors.ErrScenarioNotFound):
				return err
			}

			if err := st.SaveScenario(cmd.Context(), scenario); err != nil {
				return err
			}
			logging.LogScenario(app.Logger, "save", scenario.ID, scenario.Name)

			if output.IsJSON() {
				return output.JSON(scenario)
			}
			output.Success("✓ Saved scenario %q", scenario.Name)
			output.Dim("  id %s", scenario.ID)
			return nil
		},
	}

	addParamFlags(cmd)
	cmd.Flags().String("notes", "", "free-form notes")
	cmd.Flags().Bool("force", false, "overwrite a scenario with the same name")
	return cmd
}

func newScenarioListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			st, err := app.scenarioStore()
			if err != nil {
				return err
			}

			filter := store.ScenarioFilter{}
			filter.NameContains, _ = cmd.Flags().GetString("filter")
			filter.Limit, _ = cmd.Flags().GetInt("limit")

			scenarios, err := st.ListScenarios(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(scenarios)
			}
			if len(scenarios) == 0 {
				output.Dim("No saved scenarios. Create one with 'scenario save <name>'.")
				return nil
			}

			table := NewTable(output, "NAME", "STRIKE", "CURRENT", "PREMIUM", "DAYS", "IV", "UPDATED")
			for _, s := range scenarios {
				table.AddRow(
					TruncateString(s.Name, 30),
					FormatPrice(s.Params.StrikePrice), FormatPrice(s.Params.CurrentPrice), FormatPrice(s.Params.Premium),
					FormatDays(s.Params.DaysToExpiry), FormatPercent(s.Params.ImpliedVolatility),
					FormatDateTime(s.UpdatedAt),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().String("filter", "", "only names containing this text")
	cmd.Flags().Int("limit", 0, "maximum number of scenarios (0 for all)")
	return cmd
}

func newScenarioShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name|id>",
		Short: "Show a saved scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			scenario, err := app.findScenario(cmd, args[0])
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(scenario)
			}

			output.Bold("%s", scenario.Name)
			output.Dim("  id %s · updated %s", scenario.ID, FormatDateTime(scenario.UpdatedAt))
			if scenario.Notes != "" {
				output.Printf("  %s\n", scenario.Notes)
			}
			output.Println()
			printParams(output, scenario.Params)
			return nil
		},
	}
}

func newScenarioDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name|id>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved scenario",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			scenario, err := app.findScenario(cmd, args[0])
			if err != nil {
				return err
			}
			st, err := app.scenarioStore()
			if err != nil {
				return err
			}
			if err := st.DeleteScenario(cmd.Context(), scenario.ID); err != nil {
				return err
			}
			logging.LogScenario(app.Logger, "delete", scenario.ID, scenario.Name)

			if output.IsJSON() {
				return output.JSON(map[string]string{"deleted": scenario.ID})
			}
			output.Success("✓ Deleted scenario %q", scenario.Name)
			return nil
		},
	}
}
