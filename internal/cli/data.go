package cli

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"wheelhouse/internal/errors"
	"wheelhouse/internal/models"
	"wheelhouse/internal/store"
)

// addDataCommands adds CSV import/export commands.
func addDataCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newExportCmd(app))
	rootCmd.AddCommand(newImportCmd(app))
}

func newExportCmd(app *App) *cobra.Command {
	var (
		ticker string
		status string
	)

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export positions to CSV",
		Long:  "Export journal positions to CSV, to a file or stdout.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			defer cancel()

			filter := store.PositionFilter{
				Ticker: strings.ToUpper(ticker),
				Status: models.PositionStatus(status),
			}

			w := cmd.OutOrStdout()
			var path string
			if len(args) > 0 {
				path = args[0]
				f, err := os.Create(path)
				if err != nil {
					return errors.Wrapf(err, "creating %s", path)
				}
				defer f.Close()
				w = f
			}

			if err := app.Store.ExportCSV(ctx, w, filter); err != nil {
				return err
			}
			if path != "" {
				output.Success("✓ Exported to %s", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&ticker, "ticker", "", "filter by ticker")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")

	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import positions from CSV",
		Long:  "Import positions from a CSV export, inserting or replacing by ID.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			defer cancel()

			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrapf(err, "opening %s", args[0])
			}
			defer f.Close()

			n, err := app.Store.ImportCSV(ctx, f)
			if err != nil {
				return err
			}
			output.Success("✓ Imported %d position(s)", n)
			return nil
		},
	}
}
