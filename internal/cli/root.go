package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-cycle/internal/config"
	"github.com/tartampluch/go-cycle/internal/engine"
	"github.com/tartampluch/go-cycle/internal/i18n"
	"github.com/tartampluch/go-cycle/internal/storage"
)

// RootOptions holds global flags and the collaborators shared by all commands.
type RootOptions struct {
	Debug      bool
	ConfigPath string
	DBPath     string
	Lang       string
	Today      string
	Format     string

	Out io.Writer

	// SetupLogging is invoked once flags are parsed.
	SetupLogging func(debug bool)

	// App is built lazily from the flags unless a test injects one.
	App *App
}

// NewRootCommand creates the go-cycle command tree.
func NewRootCommand(opts *RootOptions) *cobra.Command {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	cmd := &cobra.Command{
		Use:           config.CommandName,
		Short:         "Personal menstrual cycle tracker",
		Long:          "Log period days, see cycle statistics and predictions, and publish them as a calendar feed.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(config.ExitCodeCommandError,
					fmt.Sprintf("%s %q: must be one of %v", config.ErrInvalidFormat, opts.Format, config.ValidFormats))
			}
			if opts.SetupLogging != nil {
				opts.SetupLogging(opts.Debug)
			}
			slog.Debug(config.MsgCommandStart,
				config.LogKeyComponent, config.CompCLI,
				config.LogKeyCommand, cmd.CommandPath())
			if opts.App != nil {
				return nil
			}
			app, err := opts.openApp()
			if err != nil {
				return WrapExitError(config.ExitCodeCommandError, config.ErrAppFailed, err)
			}
			opts.App = app
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.Debug, config.FlagDebug, false, config.FlagDescDebug)
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, config.FlagConfig, "", config.FlagDescConfig)
	cmd.PersistentFlags().StringVar(&opts.DBPath, config.FlagDB, "", config.FlagDescDB)
	cmd.PersistentFlags().StringVar(&opts.Lang, config.FlagLang, "", config.FlagDescLang)
	cmd.PersistentFlags().StringVar(&opts.Today, config.FlagToday, "", config.FlagDescToday)
	cmd.PersistentFlags().StringVar(&opts.Format, config.FlagFormat, config.FormatText, config.FlagDescFormat)

	cmd.AddCommand(NewLogCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewToggleCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewPredictCommand(opts))
	cmd.AddCommand(NewNextCommand(opts))
	cmd.AddCommand(NewCalendarCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

func (opts *RootOptions) output() *Output {
	return &Output{Format: opts.Format, Writer: opts.Out}
}

// openApp resolves settings, storage and clock from the flags.
func (opts *RootOptions) openApp() (*App, error) {
	settingsPath := opts.ConfigPath
	if settingsPath == "" {
		p, err := config.DefaultSettingsPath()
		if err != nil {
			return nil, err
		}
		settingsPath = p
	}
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return nil, err
	}

	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = settings.DatabasePath
	}
	if dbPath == "" {
		dbPath = filepath.Join(filepath.Dir(settingsPath), config.DatabaseFileName)
	}

	clock, err := opts.clock()
	if err != nil {
		return nil, err
	}

	lang := opts.Lang
	if lang == "" {
		lang = settings.Language
	}

	store, err := storage.Open(dbPath)
	if err != nil {
		return nil, err
	}

	return &App{
		Store:      store,
		Clock:      clock,
		Translator: i18n.New(lang),
		Settings:   settings,
		Fetcher:    engine.NewHTTPFetcher(),
		closeStore: store.Close,
	}, nil
}

// clock returns the real clock unless --today pins the current date.
func (opts *RootOptions) clock() (engine.Clock, error) {
	if opts.Today == "" {
		return engine.RealClock{}, nil
	}
	day, err := engine.ParseDate(opts.Today)
	if err != nil {
		return nil, err
	}
	return engine.FixedClock{At: day}, nil
}

// parseDay parses a DATE argument, mapping failures to a command error.
func parseDay(value string) (time.Time, error) {
	day, err := engine.ParseDate(value)
	if err != nil {
		return time.Time{}, WrapExitError(config.ExitCodeCommandError, config.ErrDateParse, err)
	}
	return day, nil
}
