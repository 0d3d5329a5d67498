package cli

import (
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"

	"wheelhouse/internal/engine/simulate"
	"wheelhouse/internal/errors"
	"wheelhouse/internal/models"
)

// addSimulateCommands adds the path simulator command.
func addSimulateCommands(rootCmd *cobra.Command, app *App) {
	var (
		start     float64
		strike    float64
		sigma     float64
		dt        float64
		runs      int
		timeLimit float64
		seed      uint64
		showPaths bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run random-walk price paths",
		Long: `Run stochastic price paths on a normalized coordinate.

Without --time-limit each path walks until it knocks out at 0 or 1.
With --time-limit each path runs to the horizon and settles below, at,
or above the strike reference. The session keeps the last 15 paths.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if runs <= 0 {
				return errors.NewValidationError("runs", runs, "must be positive")
			}
			if dt <= 0 {
				dt = app.Config.Simulation.DT
			}

			src := rand.NewSource(seed)
			if seed == 0 {
				src = rand.NewSource(uint64(time.Now().UnixNano()))
			}
			sim := simulate.New(src)
			session := simulate.NewSession()

			params := simulate.Params{
				Start:           start,
				StrikeThreshold: strike,
				Sigma:           sigma,
				DT:              dt,
				UseTimeLimit:    timeLimit > 0,
				TimeLimit:       timeLimit,
			}

			results := make([]models.SimulationResult, 0, runs)
			for i := 0; i < runs; i++ {
				res := sim.Run(params)
				session.Record(res)
				results = append(results, res)
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"runs":        session.Total(),
					"left_hits":   session.LeftHits,
					"right_hits":  session.RightHits,
					"below_count": session.BelowCount,
					"at_count":    session.AtCount,
					"above_count": session.AboveCount,
				})
			}

			renderSession(output, session, params, results, showPaths)
			return nil
		},
	}

	cmd.Flags().Float64Var(&start, "start", 0.5, "starting normalized coordinate")
	cmd.Flags().Float64Var(&strike, "strike", 0.5, "strike reference for settlement mode")
	cmd.Flags().Float64Var(&sigma, "sigma", 1.0, "volatility scale per unit time")
	cmd.Flags().Float64Var(&dt, "dt", 0, "step size (default from config)")
	cmd.Flags().IntVar(&runs, "runs", 15, "number of paths to run")
	cmd.Flags().Float64Var(&timeLimit, "time-limit", 0, "horizon for settlement mode (0 = barrier mode)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 = time-based)")
	cmd.Flags().BoolVar(&showPaths, "paths", false, "print each retained path's terminal values")

	rootCmd.AddCommand(cmd)
}

func renderSession(output *Output, session *simulate.Session, params simulate.Params, results []models.SimulationResult, showPaths bool) {
	mode := "barrier"
	if params.UseTimeLimit {
		mode = "time-limit"
	}
	output.Bold("Simulation Session (%s mode, %d runs)", mode, session.Total())
	output.Println()

	if params.UseTimeLimit {
		output.Printf("  Below strike: %d\n", session.BelowCount)
		output.Printf("  At strike:    %d\n", session.AtCount)
		output.Printf("  Above strike: %d\n", session.AboveCount)
	} else {
		output.Printf("  Left barrier hits:  %d\n", session.LeftHits)
		output.Printf("  Right barrier hits: %d\n", session.RightHits)
	}
	output.Println()

	var totalTime float64
	for _, r := range results {
		totalTime += r.FinalTime
	}
	output.Printf("  Mean path time: %.3f\n", totalTime/float64(len(results)))
	output.Printf("  History kept:   %d path(s)\n", len(session.History()))

	if showPaths {
		output.Println()
		output.Bold("Recent Paths")
		for i, path := range session.History() {
			// A recorded result may carry no trajectory.
			if len(path) == 0 {
				output.Printf("  %2d: no path recorded\n", i+1)
				continue
			}
			last := path[len(path)-1]
			output.Printf("  %2d: %4d steps, final %.4f\n", i+1, len(path)-1, last)
		}
	}
}
