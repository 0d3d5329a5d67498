package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"wheelhouse/internal/engine/greeks"
	"wheelhouse/internal/errors"
	"wheelhouse/internal/models"
)

const daysPerYear = 365.25

// addGreeksCommands adds the Black-Scholes greeks command.
func addGreeksCommands(rootCmd *cobra.Command, app *App) {
	var (
		spot      float64
		vol       float64
		rate      float64
		contracts int
	)

	cmd := &cobra.Command{
		Use:   "greeks <position-id|ticker>",
		Short: "Compute delta and theta for single-leg positions",
		Long: `Compute Black-Scholes delta and theta.

Given a position ID, pulls the contract terms from the journal and the
spot from recorded quotes (--spot overrides). Spread strategies are not
supported; greeks cover single-leg positions only.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			defer cancel()

			p, err := app.Store.GetPosition(ctx, args[0])
			if err != nil {
				return err
			}
			if p.Strategy.IsSpread() {
				return errors.NewPositionError(p.ID, p.Ticker,
					errors.Wrap(errors.ErrUnknownStrategy, "greeks cover single-leg strategies only"))
			}

			s := spot
			if s == 0 {
				qs, _, asOf, err := app.Store.GetQuote(ctx, p.Ticker)
				if err != nil {
					return errors.Wrapf(errors.ErrNoMarketData,
						"no spot for %s, pass --spot", p.Ticker)
				}
				s = qs
				output.Dim("Using recorded quote from %s", FormatDateTime(asOf))
			}

			sigma := vol
			if sigma == 0 {
				if p.IVSnapshot > 0 {
					sigma = p.IVSnapshot
				} else {
					sigma = 0.5
				}
			}
			r := rate
			if r == 0 {
				r = app.Config.Risk.RiskFreeRate
			}
			qty := contracts
			if qty == 0 {
				qty = p.Contracts
			}

			T := float64(p.DTE(time.Now())) / daysPerYear
			isPut := p.Strategy.IsPut()
			g := greeks.Compute(s, p.Strike, T, r, sigma, isPut, qty)
			if p.Strategy.IsShort() {
				g = greeks.Net([]models.Greeks{g}, []bool{true})
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"id":    p.ID,
					"delta": g.Delta,
					"theta": g.Theta,
				})
			}

			side := "call"
			if isPut {
				side = "put"
			}
			output.Bold("%s %s %.2f x%d", p.Ticker, strings.ToUpper(side), p.Strike, qty)
			output.Printf("  Spot:   %.2f  IV: %.0f%%  DTE: %d\n",
				s, sigma*100, p.DTE(time.Now()))
			output.Printf("  Delta:  %+.1f shares\n", g.Delta)
			output.Printf("  Theta:  %+.2f per day\n", g.Theta)
			return nil
		},
	}

	cmd.Flags().Float64Var(&spot, "spot", 0, "underlying price (default: recorded quote)")
	cmd.Flags().Float64Var(&vol, "vol", 0, "volatility override (default: open snapshot, then 50%)")
	cmd.Flags().Float64Var(&rate, "rate", 0, "risk-free rate (default from config)")
	cmd.Flags().IntVar(&contracts, "contracts", 0, "contract count override")

	rootCmd.AddCommand(cmd)
}
