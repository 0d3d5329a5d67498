package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"wheelhouse/internal/chains"
	"wheelhouse/internal/errors"
	"wheelhouse/internal/models"
	"wheelhouse/internal/store"
	"wheelhouse/pkg/utils"
)

// addChainCommands adds roll-chain commands.
func addChainCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Roll-chain analysis",
		Long:  "Group positions into roll chains and report net premium, realized P&L, and break-even.",
	}

	cmd.AddCommand(newChainListCmd(app))
	cmd.AddCommand(newChainShowCmd(app))

	rootCmd.AddCommand(cmd)
}

func newChainListCmd(app *App) *cobra.Command {
	var ticker string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Summarize every chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			defer cancel()

			positions, err := app.Store.GetPositions(ctx, store.PositionFilter{
				Ticker: strings.ToUpper(ticker),
			})
			if err != nil {
				return err
			}
			if len(positions) == 0 {
				output.Info("No positions found.")
				return nil
			}

			grouped := chains.Group(positions)
			summaries := make([]models.ChainSummary, 0, len(grouped))
			for _, c := range grouped {
				summaries = append(summaries, chains.Summarize(c))
			}

			if output.IsJSON() {
				return output.JSON(summaries)
			}

			color.Cyan("🔗 Roll Chains")
			output.Println()

			table := NewTable(output, "Chain", "Ticker", "Legs", "Rolled", "Net Premium", "Realized P&L", "Break-even")
			for _, s := range summaries {
				rolled := "-"
				if s.HasRolls {
					rolled = "yes"
				}
				be := "-"
				if s.Breakeven != nil {
					be = utils.FormatStrike(*s.Breakeven)
				}
				table.AddRow(
					TruncateString(s.ChainID, 24),
					s.Ticker,
					strconv.Itoa(s.Members),
					rolled,
					output.FormatPnL(s.NetPremium),
					output.FormatPnL(s.RealizedPnL),
					be,
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&ticker, "ticker", "", "filter by ticker")

	return cmd
}

func newChainShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <chain-id>",
		Short: "Show a chain's members and running totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			defer cancel()

			members, err := app.Store.GetChain(ctx, args[0])
			if err != nil {
				return err
			}
			if len(members) == 0 {
				// A chainless position's chain ID is its own position ID.
				p, perr := app.Store.GetPosition(ctx, args[0])
				if perr != nil {
					return errors.Wrapf(errors.ErrChainNotFound, "chain %s", args[0])
				}
				members = []models.Position{*p}
			}

			chain := chains.Chain{ID: args[0], Positions: members}
			summary := chains.Summarize(chain)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"summary": summary,
					"members": members,
				})
			}

			output.Bold("Chain %s (%s)", summary.ChainID, summary.Ticker)
			output.Println()

			table := NewTable(output, "ID", "Strategy", "Strike", "Premium", "Status", "Opened")
			for i := range members {
				p := &members[i]
				table.AddRow(
					p.ID,
					string(p.Strategy),
					formatStrikes(p),
					output.FormatPnL(p.SignedPremiumTotal()),
					formatStatus(output, p),
					FormatDate(p.OpenDate),
				)
			}
			table.Render()
			output.Println()

			output.Printf("  Net premium:  %s\n", output.FormatPnL(summary.NetPremium))
			output.Printf("  Realized P&L: %s\n", output.FormatPnL(summary.RealizedPnL))
			if summary.Breakeven != nil {
				output.Printf("  Break-even:   %s\n", utils.FormatStrike(*summary.Breakeven))
			} else {
				output.Dim("  Break-even:   undefined for this strategy's recorded fields")
			}
			return nil
		},
	}
}
