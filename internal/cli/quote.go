package cli

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"wheelhouse/internal/errors"
	"wheelhouse/internal/marketdata"
	"wheelhouse/internal/models"
	"wheelhouse/internal/store"
)

// addQuoteCommands adds market data snapshot commands.
func addQuoteCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Market data snapshots",
		Long:  "Record and inspect the spot/IV snapshots the risk engine reads.",
	}

	cmd.AddCommand(newQuoteSetCmd(app))
	cmd.AddCommand(newQuoteShowCmd(app))
	cmd.AddCommand(newQuoteSymbolsCmd(app))

	rootCmd.AddCommand(cmd)
}

func newQuoteSetCmd(app *App) *cobra.Command {
	var iv float64

	cmd := &cobra.Command{
		Use:   "set <ticker> <spot>",
		Short: "Record a spot price snapshot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			defer cancel()

			spot, err := strconv.ParseFloat(args[1], 64)
			if err != nil || spot <= 0 {
				return errors.NewValidationError("spot", args[1], "expected a positive price")
			}

			ticker := strings.ToUpper(args[0])
			now := time.Now()
			if err := app.Store.SaveQuote(ctx, ticker, spot, iv, now); err != nil {
				return err
			}
			app.Cache.Put(marketdata.Quote{Ticker: ticker, Spot: spot, IV: iv, AsOf: now})

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"ticker": ticker, "spot": spot, "iv": iv,
				})
			}
			if iv > 0 {
				output.Success("✓ %s: spot %.2f, IV %.0f%%", ticker, spot, iv*100)
			} else {
				output.Success("✓ %s: spot %.2f", ticker, spot)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&iv, "iv", 0, "implied volatility, as a fraction")

	return cmd
}

func newQuoteShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <ticker>",
		Short: "Show the recorded snapshot for a ticker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			defer cancel()

			ticker := strings.ToUpper(args[0])
			spot, iv, asOf, err := app.Store.GetQuote(ctx, ticker)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"ticker": ticker, "spot": spot, "iv": iv, "as_of": asOf,
				})
			}
			output.Bold("%s", ticker)
			output.Printf("  Spot:  %.2f\n", spot)
			if iv > 0 {
				output.Printf("  IV:    %.0f%%\n", iv*100)
			}
			age := time.Since(asOf).Round(time.Minute)
			output.Printf("  As of: %s (%s ago)\n", FormatDateTime(asOf), age)
			return nil
		},
	}
}

func newQuoteSymbolsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "symbols",
		Short: "Print OCC option symbols for open positions",
		Long: `Print the 21-character OCC symbols for every open option leg,
the format streaming providers expect for subscriptions. Spreads emit
both legs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			defer cancel()

			positions, err := app.Store.GetPositions(ctx, store.PositionFilter{
				Status: models.StatusOpen,
			})
			if err != nil {
				return err
			}

			symbols := marketdata.PositionSymbols(positions)
			if output.IsJSON() {
				return output.JSON(symbols)
			}
			if len(symbols) == 0 {
				output.Info("No open option legs.")
				return nil
			}
			for _, s := range symbols {
				output.Println(s)
			}
			return nil
		},
	}
}
