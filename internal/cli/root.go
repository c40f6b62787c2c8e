// Package cli provides the command-line interface for options-lab.
package cli

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"options-lab/internal/config"
	"options-lab/internal/logging"
	"options-lab/internal/metrics"
	"options-lab/internal/options"
	"options-lab/internal/store"
)

// Version information
const (
	Version   = "0.3.0"
	BuildDate = "2026-10-01"
)

// App holds the application dependencies. Config, Catalog, Engine and Metrics
// are set up before any command runs; the store is opened on first use.
type App struct {
	Config    *config.Config
	ConfigDir string
	Logger    zerolog.Logger
	Catalog   *options.Catalog
	Engine    *options.Engine
	Metrics   *metrics.Collectors
	Store     store.ScenarioStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(logger zerolog.Logger) *cobra.Command {
	app := &App{Logger: logger}

	rootCmd := &cobra.Command{
		Use:   "options-lab",
		Short: "Options Lab - payoff diagrams and Greeks for learning options",
		Long: `Options Lab draws the profit and loss of basic option strategies at
expiration and estimates simplified Greeks for a set of option parameters.

The Greeks shown are teaching approximations, not Black-Scholes values.

Use 'options-lab strategies list' to see what can be plotted.
Use 'options-lab payoff long-call --preset otm-call' to get started.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.close()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/options-lab)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	addCoreCommands(rootCmd, app)
	addCalculatorCommands(rootCmd, app)
	addReferenceCommands(rootCmd, app)
	addScenarioCommands(rootCmd, app)
	addServeCommand(rootCmd, app)

	return rootCmd
}

// init loads the configuration and builds the calculation stack.
func (app *App) init(cmd *cobra.Command) error {
	dir, _ := cmd.Flags().GetString("config")
	if dir == "" {
		dir = config.DefaultConfigDir()
	}
	app.ConfigDir = dir

	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	app.Config = cfg

	if cfg.Logging.File {
		app.Logger = logging.NewLoggerWithConfig(cfg.Logging)
	} else {
		app.Logger = app.Logger.Level(logging.ParseLevel(cfg.Logging.Level))
	}

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		logging.SetDebugLevel()
		app.Logger = app.Logger.Level(zerolog.DebugLevel)
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}
	app.Catalog = catalog
	app.Metrics = metrics.New()
	app.Engine = options.NewEngine(app.Logger, app.Metrics)

	app.Logger.Debug().
		Str("config_dir", dir).
		Int("strategies", catalog.Len()).
		Msg("Configuration loaded")
	return nil
}

// scenarioStore opens the SQLite store on first use.
func (app *App) scenarioStore() (store.ScenarioStore, error) {
	if app.Store != nil {
		return app.Store, nil
	}

	path := app.Config.Store.Path
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	st, err := store.NewSQLiteStore(path)
	if err != nil {
		return nil, err
	}
	app.Logger.Debug().Str("path", path).Msg("Scenario store opened")
	app.Store = st
	return st, nil
}

func (app *App) close() error {
	if app.Store == nil {
		return nil
	}
	err := app.Store.Close()
	app.Store = nil
	return err
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			}
			output.Printf("Options Lab v%s\n", Version)
			output.Dim("Build date: %s", BuildDate)
			return nil
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate the application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(map[string]string{"path": app.ConfigDir})
			}
			output.Println(app.ConfigDir)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("✓ Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, app *App) {
	cfg := app.Config

	output.Bold("Default Parameters")
	printParams(output, cfg.Defaults)
	output.Println()

	output.Bold("Server")
	output.Printf("  Address:         %s\n", cfg.Server.Addr)
	output.Printf("  Read Timeout:    %ds\n", cfg.Server.ReadTimeoutSec)
	output.Printf("  Write Timeout:   %ds\n", cfg.Server.WriteTimeoutSec)
	output.Printf("  Metrics:         %v\n", cfg.Server.MetricsEnabled)
	output.Println()

	output.Bold("Storage & Logging")
	output.Printf("  Scenario DB:     %s\n", cfg.Store.Path)
	output.Printf("  Log Level:       %s\n", cfg.Logging.Level)
	output.Printf("  Log File:        %v\n", cfg.Logging.File)
	output.Println()

	output.Bold("Strategies")
	output.Printf("  Built-in:        %d\n", len(options.Strategies()))
	output.Printf("  From config:     %d\n", len(cfg.Strategies))
}
