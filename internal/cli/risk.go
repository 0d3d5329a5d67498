package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"wheelhouse/internal/errors"
	"wheelhouse/internal/models"
	"wheelhouse/internal/performance"
	"wheelhouse/internal/store"
)

// addRiskCommands adds risk assessment commands.
func addRiskCommands(rootCmd *cobra.Command, app *App) {
	cmd := newRiskCmd(app)
	cmd.AddCommand(newRiskProbCmd(app))
	rootCmd.AddCommand(cmd)
}

func newRiskCmd(app *App) *cobra.Command {
	var maxQuoteAge time.Duration

	cmd := &cobra.Command{
		Use:   "risk [ticker]",
		Short: "Assess assignment risk for open positions",
		Long: `Classify every open position into a risk tier.

Positions with a recorded spot price get a Monte Carlo ITM probability;
positions without one fall back to a DTE-based tier. Short options on
tickers flagged wants-assignment report on-target instead of at-risk.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			defer cancel()

			filter := store.PositionFilter{Status: models.StatusOpen}
			if len(args) > 0 {
				filter.Ticker = strings.ToUpper(args[0])
			}
			positions, err := app.Store.GetPositions(ctx, filter)
			if err != nil {
				return err
			}
			if len(positions) == 0 {
				output.Info("No open positions.")
				return nil
			}

			holdings, err := app.Store.GetHoldings(ctx)
			if err != nil {
				app.Logger.Warn().Err(err).Msg("holdings unavailable, assignment intent ignored")
				holdings = nil
			}

			quotes := func(ticker string) (spot, iv *float64) {
				if s, v := app.Cache.Lookup(ticker); s != nil {
					return s, v
				}
				s, v, asOf, err := app.Store.GetQuote(ctx, ticker)
				if err != nil || time.Since(asOf) > maxQuoteAge {
					return nil, nil
				}
				spot = &s
				if v > 0 {
					iv = &v
				}
				return spot, iv
			}

			pool := performance.NewWorkerPool(app.Config.Risk.Workers)
			pool.Start()
			defer pool.Stop()

			assessments := app.Classifier.ClassifyAll(ctx, pool, positions, quotes, holdings, time.Now())

			if output.IsJSON() {
				return output.JSON(assessments)
			}
			renderRiskTable(output, positions, assessments)
			return nil
		},
	}

	cmd.Flags().DurationVar(&maxQuoteAge, "max-quote-age", 24*time.Hour,
		"oldest recorded quote still used for probability estimates")

	return cmd
}

func renderRiskTable(output *Output, positions []models.Position, assessments []models.RiskAssessment) {
	color.Cyan("📊 Position Risk")
	output.Println()

	now := time.Now()
	table := NewTable(output, "Ticker", "Strategy", "Strike", "DTE", "ITM Prob", "Tier", "Status")
	var attention int
	for i := range positions {
		p := &positions[i]
		a := &assessments[i]

		prob := "-"
		if a.ProbabilityKnown {
			prob = fmt.Sprintf("%.1f%%", a.ITMProbability)
		}
		if a.NeedsAttention {
			attention++
		}

		table.AddRow(
			p.Ticker,
			string(p.Strategy),
			formatStrikes(p),
			strconv.Itoa(p.DTE(now)),
			prob,
			tierCell(output, a),
			a.Status,
		)
	}
	table.Render()
	output.Println()

	if attention > 0 {
		output.Warning("⚠ %d position(s) need attention", attention)
	} else {
		output.Success("✓ No positions need attention")
	}
}

func tierCell(o *Output, a *models.RiskAssessment) string {
	label := a.Tier.Icon() + " " + a.Tier.String()
	switch a.Tier {
	case models.TierSafe:
		return o.Green(label)
	case models.TierWatch:
		return o.Yellow(label)
	case models.TierCaution, models.TierDanger:
		return o.Red(label)
	case models.TierTarget:
		return o.Cyan(label)
	default:
		return o.DimText(label)
	}
}

func newRiskProbCmd(app *App) *cobra.Command {
	var (
		spot   float64
		strike float64
		dte    int
		vol    float64
		isPut  bool
	)

	cmd := &cobra.Command{
		Use:   "prob",
		Short: "Estimate ITM probability for arbitrary contract terms",
		Long:  "Run the Monte Carlo estimator directly, without a journal position.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			prob := app.Estimator.ITMProbability(spot, strike, dte, vol, isPut)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"spot":            spot,
					"strike":          strike,
					"dte":             dte,
					"vol":             vol,
					"put":             isPut,
					"itm_probability": prob,
				})
			}

			side := "call"
			if isPut {
				side = "put"
			}
			output.Bold("Monte Carlo ITM Probability")
			output.Printf("  Contract:  %s %.2f, %s out\n", side, strike, FormatDTE(dte))
			output.Printf("  Spot:      %.2f, vol %.0f%%\n", spot, vol*100)
			output.Printf("  ITM Prob:  %.1f%%\n", prob)
			return nil
		},
	}

	cmd.Flags().Float64Var(&spot, "spot", 0, "current underlying price")
	cmd.Flags().Float64Var(&strike, "strike", 0, "option strike")
	cmd.Flags().IntVar(&dte, "dte", 30, "days to expiry")
	cmd.Flags().Float64Var(&vol, "vol", 0.5, "annualized volatility, as a fraction")
	cmd.Flags().BoolVar(&isPut, "put", false, "price a put instead of a call")
	cmd.MarkFlagRequired("spot")
	cmd.MarkFlagRequired("strike")

	return cmd
}
