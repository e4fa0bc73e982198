package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-cycle/internal/config"
)

// ExportResult is the JSON payload of the export command.
type ExportResult struct {
	Path     string `json:"path,omitempty"`
	Bytes    int    `json:"bytes"`
	Calendar string `json:"calendar,omitempty"`
}

// NewExportCommand creates the export command.
func NewExportCommand(opts *RootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write logged and predicted periods as an iCalendar feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := opts.App
			ctx := cmd.Context()

			ics, err := app.buildFeed(ctx, app.Store.Load(ctx))
			if err != nil {
				return err
			}

			out := opts.output()
			if outPath == "" {
				if out.JSON() {
					return out.Success(ExportResult{Bytes: len(ics), Calendar: string(ics)}, nil)
				}
				_, err := opts.Out.Write(ics)
				return err
			}

			if err := os.WriteFile(outPath, ics, config.FilePermUserRW); err != nil {
				return fmt.Errorf("%s: %w", config.ErrFileWrite, err)
			}
			slog.Info(config.MsgFeedSuccess,
				config.LogKeyComponent, config.CompCLI,
				config.LogKeyPath, outPath,
				config.LogKeySizeBytes, len(ics))

			return out.Success(ExportResult{Path: outPath, Bytes: len(ics)}, func(w io.Writer) {
				fmt.Fprintln(w, outPath)
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, config.FlagOut, "o", "", config.FlagDescOut)
	return cmd
}
