package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"wheelhouse/internal/errors"
	"wheelhouse/internal/models"
	"wheelhouse/internal/store"
	"wheelhouse/pkg/utils"
)

const storeTimeout = 30 * time.Second

// addPositionCommands adds position lifecycle commands.
func addPositionCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:     "position",
		Aliases: []string{"pos"},
		Short:   "Position management",
		Long:    "Open, list, roll, and close journal positions.",
	}

	cmd.AddCommand(newPositionAddCmd(app))
	cmd.AddCommand(newPositionListCmd(app))
	cmd.AddCommand(newPositionCloseCmd(app))
	cmd.AddCommand(newPositionRollCmd(app))

	rootCmd.AddCommand(cmd)
	rootCmd.AddCommand(newHoldingCmd(app))
}

func newPositionAddCmd(app *App) *cobra.Command {
	var (
		strategy   string
		strike     float64
		buyStrike  float64
		sellStrike float64
		premium    float64
		contracts  int
		expiry     string
		openDate   string
		costBasis  float64
		ivSnapshot float64
	)

	cmd := &cobra.Command{
		Use:   "add <ticker>",
		Short: "Record a new position",
		Long: `Record a newly opened position in the journal.

Premium is entered as a positive per-share price; the sign is applied
from the strategy (credit strategies collect it, debit strategies pay it).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			defer cancel()

			kind := models.StrategyKind(strategy)
			if !kind.Valid() {
				return errors.NewValidationError("strategy", strategy,
					"unknown strategy kind")
			}
			if kind.IsSpread() {
				if buyStrike <= 0 || sellStrike <= 0 {
					return errors.NewValidationError("strike", buyStrike,
						"spread strategies need --buy-strike and --sell-strike")
				}
			} else if strike <= 0 {
				return errors.NewValidationError("strike", strike,
					"single-leg strategies need --strike")
			}

			exp, err := time.Parse("2006-01-02", expiry)
			if err != nil {
				return errors.NewValidationError("expiry", expiry,
					"expected YYYY-MM-DD")
			}
			opened := time.Now()
			if openDate != "" {
				opened, err = time.Parse("2006-01-02", openDate)
				if err != nil {
					return errors.NewValidationError("open", openDate,
						"expected YYYY-MM-DD")
				}
			}

			signed := premium
			if !kind.IsCredit() {
				signed = -premium
			}

			ticker := strings.ToUpper(args[0])
			p := &models.Position{
				ID:         newPositionID(ticker, exp),
				Ticker:     ticker,
				Strategy:   kind,
				Strike:     strike,
				BuyStrike:  buyStrike,
				SellStrike: sellStrike,
				Premium:    signed,
				Contracts:  contracts,
				Expiry:     exp,
				OpenDate:   opened,
				Status:     models.StatusOpen,
				CostBasis:  costBasis,
				IVSnapshot: ivSnapshot,
			}
			if err := app.Store.SavePosition(ctx, p); err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(p)
			}
			output.Success("✓ Recorded %s %s (%s)", p.Ticker, p.Strategy, p.ID)
			output.Printf("  Premium: %s x %d contracts = %s\n",
				utils.FormatCurrency(p.Premium),
				p.Contracts,
				utils.FormatCurrency(p.SignedPremiumTotal()))
			output.Printf("  Expiry:  %s (%s)\n", FormatDate(exp), FormatDTE(p.DTE(time.Now())))
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "strategy kind (short_put, covered_call, put_credit_spread, ...)")
	cmd.Flags().Float64Var(&strike, "strike", 0, "strike for single-leg strategies")
	cmd.Flags().Float64Var(&buyStrike, "buy-strike", 0, "long-leg strike for spreads")
	cmd.Flags().Float64Var(&sellStrike, "sell-strike", 0, "short-leg strike for spreads")
	cmd.Flags().Float64Var(&premium, "premium", 0, "per-share premium, always positive")
	cmd.Flags().IntVar(&contracts, "contracts", 1, "number of contracts")
	cmd.Flags().StringVar(&expiry, "expiry", "", "expiration date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&openDate, "open", "", "open date (YYYY-MM-DD, default today)")
	cmd.Flags().Float64Var(&costBasis, "cost-basis", 0, "per-share stock basis for covered calls")
	cmd.Flags().Float64Var(&ivSnapshot, "iv", 0, "implied volatility at open, as a fraction")
	cmd.MarkFlagRequired("strategy")
	cmd.MarkFlagRequired("premium")
	cmd.MarkFlagRequired("expiry")

	return cmd
}

func newPositionListCmd(app *App) *cobra.Command {
	var (
		ticker string
		status string
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			defer cancel()

			filter := store.PositionFilter{Ticker: strings.ToUpper(ticker)}
			if !all {
				filter.Status = models.StatusOpen
			}
			if status != "" {
				filter.Status = models.PositionStatus(status)
			}

			positions, err := app.Store.GetPositions(ctx, filter)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(positions)
			}
			if len(positions) == 0 {
				output.Info("No positions found.")
				return nil
			}

			now := time.Now()
			table := NewTable(output, "ID", "Ticker", "Strategy", "Strike", "Premium", "Qty", "Expiry", "DTE", "Status")
			for i := range positions {
				p := &positions[i]
				table.AddRow(
					p.ID,
					p.Ticker,
					string(p.Strategy),
					formatStrikes(p),
					output.FormatPnL(p.SignedPremiumTotal()),
					strconv.Itoa(p.Contracts),
					FormatDate(p.Expiry),
					strconv.Itoa(p.DTE(now)),
					formatStatus(output, p),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&ticker, "ticker", "", "filter by ticker")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (open, closed, assigned)")
	cmd.Flags().BoolVar(&all, "all", false, "include closed and assigned positions")

	return cmd
}

func newPositionCloseCmd(app *App) *cobra.Command {
	var (
		reason     string
		buyBack    float64
		closePrice float64
	)

	cmd := &cobra.Command{
		Use:   "close <position-id>",
		Short: "Close a position",
		Long: `Close an open position.

The reason drives realized P&L: expired and assigned keep the full
premium, bought_back subtracts --buyback, and long legs sold to close
record the exit with --close-price.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			defer cancel()

			r := models.CloseReason(reason)
			switch r {
			case models.CloseExpired, models.CloseAssigned, models.CloseCalled, models.CloseBought:
			default:
				return errors.NewValidationError("reason", reason,
					"expected expired, assigned, called, or bought_back")
			}

			status := models.StatusClosed
			if r == models.CloseAssigned {
				status = models.StatusAssigned
			}

			if err := app.Store.ClosePosition(ctx, args[0], status, r, buyBack, closePrice); err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"id": args[0], "status": string(status)})
			}
			output.Success("✓ Closed %s (%s)", args[0], reason)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "expired", "close reason (expired, assigned, called, bought_back)")
	cmd.Flags().Float64Var(&buyBack, "buyback", 0, "total cash paid to buy back the position")
	cmd.Flags().Float64Var(&closePrice, "close-price", 0, "per-share exit price for a long leg")

	return cmd
}

func newPositionRollCmd(app *App) *cobra.Command {
	var (
		buyBack   float64
		strike    float64
		premium   float64
		contracts int
		expiry    string
	)

	cmd := &cobra.Command{
		Use:   "roll <position-id>",
		Short: "Roll a position to a new strike or expiry",
		Long: `Close a position as rolled and open its successor in the same chain.

The successor inherits the ticker and strategy. Chain-level net premium
subtracts the buy-back cost, so roll chains report true running credit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			defer cancel()

			old, err := app.Store.GetPosition(ctx, args[0])
			if err != nil {
				return err
			}
			if old.Status != models.StatusOpen {
				return errors.NewPositionError(old.ID, old.Ticker, errors.ErrPositionClosed)
			}

			exp, err := time.Parse("2006-01-02", expiry)
			if err != nil {
				return errors.NewValidationError("expiry", expiry, "expected YYYY-MM-DD")
			}

			signed := premium
			if !old.Strategy.IsCredit() {
				signed = -premium
			}
			qty := contracts
			if qty == 0 {
				qty = old.Contracts
			}

			successor := &models.Position{
				ID:        newPositionID(old.Ticker, exp),
				Ticker:    old.Ticker,
				Strategy:  old.Strategy,
				Strike:    strike,
				Premium:   signed,
				Contracts: qty,
				Expiry:    exp,
				OpenDate:  time.Now(),
				Status:    models.StatusOpen,
				CostBasis: old.CostBasis,
			}
			if strike == 0 {
				successor.Strike = old.Strike
			}
			if old.Strategy.IsSpread() {
				successor.BuyStrike = old.BuyStrike
				successor.SellStrike = old.SellStrike
			}

			if err := app.Store.RollPosition(ctx, old.ID, buyBack, successor); err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(successor)
			}
			output.Success("✓ Rolled %s -> %s", old.ID, successor.ID)
			output.Printf("  Buy-back: %s, new premium: %s\n",
				utils.FormatCurrency(buyBack),
				utils.FormatCurrency(successor.SignedPremiumTotal()))
			return nil
		},
	}

	cmd.Flags().Float64Var(&buyBack, "buyback", 0, "total cash paid to close the old position")
	cmd.Flags().Float64Var(&strike, "strike", 0, "new strike (default: unchanged)")
	cmd.Flags().Float64Var(&premium, "premium", 0, "per-share premium on the new position")
	cmd.Flags().IntVar(&contracts, "contracts", 0, "contracts on the new position (default: unchanged)")
	cmd.Flags().StringVar(&expiry, "expiry", "", "new expiration date (YYYY-MM-DD)")
	cmd.MarkFlagRequired("premium")
	cmd.MarkFlagRequired("expiry")

	return cmd
}

func newHoldingCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holding",
		Short: "Share holdings management",
		Long:  "Track share positions and assignment intent per ticker.",
	}

	var (
		costBasis float64
		wants     bool
	)
	setCmd := &cobra.Command{
		Use:   "set <ticker> <shares>",
		Short: "Record a share holding",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			defer cancel()

			shares, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.NewValidationError("shares", args[1], "expected an integer")
			}

			h := &models.Holding{
				Ticker:          strings.ToUpper(args[0]),
				Shares:          shares,
				CostBasis:       costBasis,
				WantsAssignment: wants,
			}
			if err := app.Store.SaveHolding(ctx, h); err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(h)
			}
			output.Success("✓ %s: %d shares @ %s", h.Ticker, h.Shares, utils.FormatCurrency(h.CostBasis))
			if wants {
				output.Info("  Assignment wanted: short options on %s report on-target when ITM", h.Ticker)
			}
			return nil
		},
	}
	setCmd.Flags().Float64Var(&costBasis, "cost-basis", 0, "per-share cost basis")
	setCmd.Flags().BoolVar(&wants, "wants-assignment", false, "treat assignment as the desired outcome")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List share holdings",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			defer cancel()

			holdings, err := app.Store.GetHoldings(ctx)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(holdings)
			}
			if len(holdings) == 0 {
				output.Info("No holdings recorded.")
				return nil
			}

			table := NewTable(output, "Ticker", "Shares", "Cost Basis", "Assignment")
			for _, h := range holdings {
				intent := "-"
				if h.WantsAssignment {
					intent = output.Green("wanted")
				}
				table.AddRow(h.Ticker, strconv.Itoa(h.Shares),
					utils.FormatCurrency(h.CostBasis), intent)
			}
			table.Render()
			return nil
		},
	}

	cmd.AddCommand(setCmd)
	cmd.AddCommand(listCmd)
	return cmd
}

// newPositionID builds a readable unique ID from the ticker and expiry.
func newPositionID(ticker string, expiry time.Time) string {
	return fmt.Sprintf("%s-%s-%d",
		strings.ToLower(ticker),
		expiry.Format("060102"),
		time.Now().UnixNano()%1_000_000)
}

func formatStrikes(p *models.Position) string {
	if p.Strategy.IsSpread() {
		return fmt.Sprintf("%s/%s",
			utils.FormatStrike(p.BuyStrike), utils.FormatStrike(p.SellStrike))
	}
	return utils.FormatStrike(p.Strike)
}

func formatStatus(o *Output, p *models.Position) string {
	switch p.Status {
	case models.StatusOpen:
		return o.Green("open")
	case models.StatusAssigned:
		return o.Yellow("assigned")
	default:
		if p.Reason != "" {
			return o.DimText(string(p.Status) + " (" + string(p.Reason) + ")")
		}
		return o.DimText(string(p.Status))
	}
}
