// Package cli provides the command-line interface for the options journal.
package cli

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"wheelhouse/internal/config"
	"wheelhouse/internal/engine/probability"
	"wheelhouse/internal/engine/risk"
	apperrors "wheelhouse/internal/errors"
	"wheelhouse/internal/logging"
	"wheelhouse/internal/marketdata"
	"wheelhouse/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2025-06-01"
)

// App holds the application dependencies.
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Store      *store.SQLiteStore
	Cache      *marketdata.Cache
	Estimator  *probability.Estimator
	Classifier *risk.Classifier
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize SQLite store
	dataStore, err := store.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, some features may be unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Str("path", cfg.Storage.DBPath).Msg("SQLite store initialized")
	}

	// Quote cache reads through to manually recorded snapshots.
	provider := marketdata.QuoteProviderFunc(func(ctx context.Context, ticker string) (marketdata.Quote, error) {
		if app.Store == nil {
			return marketdata.Quote{}, apperrors.ErrDatabaseError
		}
		spot, iv, asOf, err := app.Store.GetQuote(ctx, ticker)
		if err != nil {
			return marketdata.Quote{}, err
		}
		return marketdata.Quote{Ticker: ticker, Spot: spot, IV: iv, AsOf: asOf}, nil
	})
	ttl := time.Duration(cfg.MarketData.CacheTTLMinutes) * time.Minute
	app.Cache = marketdata.NewCache(provider, ttl, logger)

	app.Estimator = probability.New(
		probability.WithPaths(cfg.Simulation.Paths),
		probability.WithRiskFreeRate(cfg.Risk.RiskFreeRate),
	)
	app.Classifier = risk.New(app.Estimator, logger)

	rootCmd := &cobra.Command{
		Use:   "wheelhouse",
		Short: "WheelHouse - options wheel journal and risk CLI",
		Long: `WheelHouse is a personal journal for wheel-style options trading.

It tracks short puts, covered calls, and spreads across roll chains,
estimates assignment risk with Monte Carlo simulation, and computes
Black-Scholes greeks and break-even prices for every position.

Use 'wheelhouse help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/wheelhouse)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	// Add all command groups
	addCoreCommands(rootCmd, app)
	addPositionCommands(rootCmd, app)
	addRiskCommands(rootCmd, app)
	addSimulateCommands(rootCmd, app)
	addGreeksCommands(rootCmd, app)
	addChainCommands(rootCmd, app)
	addQuoteCommands(rootCmd, app)
	addDataCommands(rootCmd, app)

	return rootCmd
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
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("WheelHouse v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Simulation")
	output.Printf("  Paths:         %d\n", cfg.Simulation.Paths)
	output.Printf("  Steps:         %d\n", cfg.Simulation.Steps)
	output.Printf("  Step Size:     %.4f\n", cfg.Simulation.DT)
	output.Printf("  History Size:  %d\n", cfg.Simulation.HistorySize)
	output.Println()

	output.Bold("Risk")
	output.Printf("  Risk-Free Rate: %.2f%%\n", cfg.Risk.RiskFreeRate*100)
	output.Printf("  Workers:        %d\n", cfg.Risk.Workers)
	output.Println()

	output.Bold("Market Data")
	output.Printf("  Cache TTL:     %d min\n", cfg.MarketData.CacheTTLMinutes)
	output.Println()

	output.Bold("Storage")
	output.Printf("  Database:      %s\n", cfg.Storage.DBPath)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:         %s\n", cfg.Logging.Level)
	output.Printf("  File:          %s\n", cfg.Logging.FilePath)
}
