package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-cycle/internal/config"
	"github.com/tartampluch/go-cycle/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Publish the cycle calendar and insights over HTTP on localhost",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := opts.App
			ctx := cmd.Context()

			if port == "" {
				port = app.Settings.ServerPort
			}
			srv := server.NewCalendarServer(port)

			go app.backgroundWorker(ctx, srv)

			fmt.Fprintln(opts.Out, app.Translator.MsgData(config.TKeyServerListening, map[string]any{"Port": port}))
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVarP(&port, config.FlagPort, "p", "", config.FlagDescPort)
	return cmd
}
