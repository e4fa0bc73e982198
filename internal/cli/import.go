package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-cycle/internal/config"
	"github.com/zalando/go-keyring"
)

// ImportResult is the JSON payload of the import command.
type ImportResult struct {
	Imported int `json:"imported"`
	Periods  int `json:"total_periods"`
}

// NewImportCommand creates the import command.
func NewImportCommand(opts *RootOptions) *cobra.Command {
	var storePassword bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Merge periods from the configured iCalendar source",
		Long: "Reads the iCalendar file or URL configured in the settings and merges its events " +
			"into the logged history. With --password, reads the source password from stdin " +
			"and stores it in the OS keyring instead.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := opts.App
			out := opts.output()

			if storePassword {
				if err := app.storePassword(cmd.InOrStdin()); err != nil {
					return err
				}
				return out.Success(map[string]bool{"stored": true}, func(w io.Writer) {
					fmt.Fprintln(w, app.Translator.Msg(config.TKeyPasswordStored))
				})
			}

			n, saved, err := app.importEntries(cmd.Context())
			if err != nil {
				return err
			}
			if !saved {
				return NewExitError(config.ExitCodeError, app.Translator.Msg(config.TKeySaveFailed))
			}

			result := ImportResult{Imported: n, Periods: len(app.Store.Load(cmd.Context()))}
			return out.Success(result, func(w io.Writer) {
				fmt.Fprintln(w, app.Translator.Plural(config.TKeyImported, n))
			})
		},
	}

	cmd.Flags().BoolVar(&storePassword, config.FlagPassword, false, config.FlagDescPassword)
	return cmd
}

// storePassword reads one line from r and saves it under the configured username.
func (app *App) storePassword(r io.Reader) error {
	user := app.Settings.Username
	if user == "" {
		return NewExitError(config.ExitCodeCommandError, config.ErrUsernameMissing)
	}

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w", config.ErrPromptRead, err)
	}
	password := strings.TrimRight(line, "\r\n")

	if err := keyring.Set(config.KeyringService, user, password); err != nil {
		return fmt.Errorf("%s: %w", config.ErrKeyring, err)
	}
	slog.Info(config.MsgPasswordStored,
		config.LogKeyComponent, config.CompCLI,
		config.LogKeyUser, user)
	return nil
}
