package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-cycle/internal/config"
	"github.com/tartampluch/go-cycle/internal/engine"
)

type editOp int

const (
	opLog editOp = iota
	opRemove
	opToggle
)

// EditResult is the JSON payload of log, remove and toggle.
type EditResult struct {
	Date    string `json:"date"`
	Added   bool   `json:"added"`
	Changed bool   `json:"changed"`
	Periods int    `json:"total_periods"`
}

// NewLogCommand creates the log command.
func NewLogCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "log [DATE]",
		Short: "Mark a day as a period day (default: today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, opts, args, opLog)
		},
	}
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove DATE",
		Aliases: []string{"rm"},
		Short:   "Unmark a period day",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, opts, args, opRemove)
		},
	}
}

// NewToggleCommand creates the toggle command.
func NewToggleCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle [DATE]",
		Short: "Mark the day if it is unmarked, unmark it otherwise (default: today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, opts, args, opToggle)
		},
	}
}

func runEdit(cmd *cobra.Command, opts *RootOptions, args []string, op editOp) error {
	app := opts.App
	out := opts.output()
	ctx := cmd.Context()

	day, err := dayOrToday(app, args)
	if err != nil {
		return err
	}

	before := app.Store.Load(ctx)
	wasLogged := engine.IsDateInPeriod(day, before)

	var after []engine.PeriodEntry
	added := false
	switch op {
	case opLog:
		after = engine.AddPeriodDay(before, day, app.newID())
		added = true
	case opRemove:
		after = engine.RemovePeriodDay(before, day, app.newID())
	case opToggle:
		after, added = engine.TogglePeriodDay(before, day, app.newID())
	}

	changed := wasLogged != added
	if changed && !app.Store.Save(ctx, after) {
		return NewExitError(config.ExitCodeError, app.Translator.Msg(config.TKeySaveFailed))
	}

	msg := config.MsgDayRemoved
	if added {
		msg = config.MsgDayLogged
	}
	slog.Info(msg,
		config.LogKeyComponent, config.CompCLI,
		config.LogKeyDate, engine.FormatDate(day),
		config.LogKeyCount, len(after))

	result := EditResult{
		Date:    engine.FormatDate(day),
		Added:   added,
		Changed: changed,
		Periods: len(after),
	}
	return out.Success(result, func(w io.Writer) {
		key := config.TKeyRemoved
		if added {
			key = config.TKeyLogged
		}
		fmt.Fprintln(w, app.Translator.MsgData(key, map[string]any{"Date": app.formatLongDate(day)}))
	})
}

func dayOrToday(app *App, args []string) (time.Time, error) {
	if len(args) == 0 {
		return app.Today(), nil
	}
	return parseDay(args[0])
}
