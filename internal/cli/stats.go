package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-cycle/internal/config"
	"github.com/tartampluch/go-cycle/internal/engine"
)

// NextResult is the JSON payload of the next command.
type NextResult struct {
	DaysUntil *int   `json:"days_until_next_period"`
	NextStart string `json:"next_start,omitempty"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cycle statistics, upcoming predictions and recent history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := opts.App
			insights := engine.BuildInsights(app.Store.Load(cmd.Context()), app.Today())
			return opts.output().Success(insights, func(w io.Writer) {
				app.renderInsights(w, insights)
			})
		},
	}
}

// NewPredictCommand creates the predict command.
func NewPredictCommand(opts *RootOptions) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "List the next predicted period start dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return NewExitError(config.ExitCodeCommandError,
					fmt.Sprintf("%s: %d", config.ErrInvalidCount, count))
			}
			app := opts.App
			starts := engine.PredictNextPeriods(app.Store.Load(cmd.Context()), count)

			dates := make([]string, 0, len(starts))
			for _, s := range starts {
				dates = append(dates, engine.FormatDate(s))
			}
			return opts.output().Success(dates, func(w io.Writer) {
				if len(starts) == 0 {
					fmt.Fprintln(w, app.Translator.Msg(config.TKeyNoData))
					return
				}
				for i, s := range starts {
					label := app.Translator.MsgData(config.TKeyPeriodN, map[string]any{"Index": i + 1})
					fmt.Fprintf(w, "%s: %s\n", label, app.formatLongDate(s))
				}
			})
		},
	}

	cmd.Flags().IntVar(&count, config.FlagCount, config.PredictionHorizon, config.FlagDescCount)
	return cmd
}

// NewNextCommand creates the next command.
func NewNextCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Show the number of days until the next predicted period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := opts.App
			entries := app.Store.Load(cmd.Context())

			var result NextResult
			if days, ok := engine.DaysUntilNextPeriod(entries, app.Today()); ok {
				result.DaysUntil = &days
				result.NextStart = engine.FormatDate(engine.PredictNextPeriods(entries, 1)[0])
			}
			return opts.output().Success(result, func(w io.Writer) {
				if result.DaysUntil == nil {
					fmt.Fprintln(w, app.Translator.Msg(config.TKeyNoData))
					return
				}
				fmt.Fprintf(w, "%d %s\n", *result.DaysUntil, app.Translator.Msg(config.TKeyDaysUntil))
			})
		},
	}
}

// renderInsights prints the statistics view.
func (app *App) renderInsights(w io.Writer, in engine.Insights) {
	tr := app.Translator
	st := newStyles(w)
	if in.TotalPeriods == 0 {
		fmt.Fprintln(w, tr.Msg(config.TKeyEmptyInsights))
		return
	}

	days := tr.Msg(config.TKeyUnitDays)
	stat := func(key string, value string) {
		fmt.Fprintf(w, "  %s %s\n", st.label.Render(tr.Msg(key)+":"), value)
	}

	fmt.Fprintln(w, st.title.Render(tr.Msg(config.TKeyStatistics)))
	stat(config.TKeyAvgCycle, fmt.Sprintf("%d %s", in.AverageCycleLength, days))
	stat(config.TKeyAvgPeriod, fmt.Sprintf("%d %s", in.AveragePeriodLength, days))
	if in.DaysSinceLastPeriod != nil {
		stat(config.TKeyDaysSince, fmt.Sprintf("%d %s", *in.DaysSinceLastPeriod, days))
	}
	stat(config.TKeyTotalLogged, fmt.Sprintf("%d", in.TotalPeriods))

	fmt.Fprintln(w)
	fmt.Fprintln(w, st.title.Render(tr.Msg(config.TKeyPredictions)))
	for i, p := range in.Predictions {
		label := tr.MsgData(config.TKeyPeriodN, map[string]any{"Index": i + 1})
		fmt.Fprintf(w, "  %s: %s %s (%s)\n",
			st.label.Render(label),
			app.formatLongDate(p.Start),
			app.rangeEnd(p.End),
			tr.Plural(config.TKeyInDays, p.DaysAway))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, st.title.Render(tr.Msg(config.TKeyHistory)))
	for _, h := range in.History {
		fmt.Fprintf(w, "  %s %s  %s\n",
			app.formatLongDate(h.Start),
			app.rangeEnd(h.End),
			st.label.Render(tr.Plural(config.TKeyHistoryLength, h.Length)))
	}
}

func (app *App) rangeEnd(end time.Time) string {
	return app.Translator.MsgData(config.TKeyHistoryTo, map[string]any{"Date": app.formatLongDate(end)})
}
