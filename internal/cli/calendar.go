package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-cycle/internal/config"
	"github.com/tartampluch/go-cycle/internal/engine"
)

const (
	daysPerWeek   = 7
	monthsPerYear = 12
)

var fallbackWeekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// NewCalendarCommand creates the calendar command.
func NewCalendarCommand(opts *RootOptions) *cobra.Command {
	var monthFlag, selectFlag string

	cmd := &cobra.Command{
		Use:     "calendar",
		Aliases: []string{"cal"},
		Short:   "Show a month with logged and predicted period days",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := opts.App
			today := app.Today()

			month := today
			if monthFlag != "" {
				m, err := time.Parse(config.MonthFormat, monthFlag)
				if err != nil {
					return WrapExitError(config.ExitCodeCommandError, config.ErrMonthParse, err)
				}
				month = m
			}

			var selected *time.Time
			if selectFlag != "" {
				d, err := parseDay(selectFlag)
				if err != nil {
					return err
				}
				selected = &d
			}

			grid := engine.BuildMonth(month, app.Store.Load(cmd.Context()), today, selected)
			return opts.output().Success(grid, func(w io.Writer) {
				app.renderMonth(w, grid)
			})
		},
	}

	cmd.Flags().StringVar(&monthFlag, config.FlagMonth, "", config.FlagDescMonth)
	cmd.Flags().StringVar(&selectFlag, config.FlagSelect, "", config.FlagDescSelect)
	return cmd
}

// renderMonth draws a Sunday-first grid followed by the legend.
func (app *App) renderMonth(w io.Writer, grid engine.Month) {
	st := newStyles(w)
	title := fmt.Sprintf("%s %d", app.monthName(grid.Month), grid.Year)
	fmt.Fprintln(w, st.title.Render(title))

	weekdays := app.Translator.List(config.TKeyWeekdays, daysPerWeek)
	if weekdays == nil {
		weekdays = fallbackWeekdays
	}
	header := make([]string, 0, daysPerWeek)
	for _, name := range weekdays {
		header = append(header, st.header.Render(st.cell.Render(abbreviate(name, cellWidth))))
	}
	fmt.Fprintln(w, strings.Join(header, " "))

	row := make([]string, 0, daysPerWeek)
	for i := 0; i < grid.Leading; i++ {
		row = append(row, st.cell.Render(""))
	}
	for _, day := range grid.Days {
		row = append(row, st.day(day))
		if len(row) == daysPerWeek {
			fmt.Fprintln(w, strings.Join(row, " "))
			row = row[:0]
		}
	}
	if len(row) > 0 {
		fmt.Fprintln(w, strings.Join(row, " "))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s: %s %s  %s %s  %s\n",
		app.Translator.Msg(config.TKeyLegend),
		st.period.Render(markPeriod), app.Translator.Msg(config.TKeyLegendPeriod),
		st.predicted.Render(markPredicted), app.Translator.Msg(config.TKeyLegendPredicted),
		st.today.Render(app.Translator.Msg(config.TKeyLegendToday)),
	)
}

// day styles one cell. The fill goes to a logged day first, then a
// predicted one, then the selection. Today keeps its underline on top.
func (st styles) day(day engine.CalendarDay) string {
	mark := markNone
	style := st.cell
	switch {
	case day.IsPeriod:
		mark = markPeriod
		style = style.Inherit(st.period)
	case day.IsPredicted:
		mark = markPredicted
		style = style.Inherit(st.predicted)
	case day.IsSelected:
		style = style.Inherit(st.selected)
	}
	if day.IsToday {
		style = style.Inherit(st.today)
	}
	return style.Render(fmt.Sprintf("%2d%s", day.Date.Day(), mark))
}

func (app *App) monthName(m time.Month) string {
	names := app.Translator.List(config.TKeyMonthNames, monthsPerYear)
	if names == nil {
		return m.String()
	}
	return names[m-1]
}

// abbreviate keeps the first n-1 runes so that header cells keep a gap.
func abbreviate(name string, n int) string {
	r := []rune(name)
	if len(r) >= n {
		r = r[:n-1]
	}
	return string(r)
}
