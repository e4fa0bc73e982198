package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-cycle/internal/config"
)

// VersionInfo is the JSON payload of the version command.
type VersionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		// The version must print even when storage cannot be opened.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(config.ExitCodeCommandError, config.ErrInvalidFormat)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			info := VersionInfo{
				Version: config.Version,
				Commit:  config.Commit,
				Date:    config.Date,
				OS:      runtime.GOOS,
				Arch:    runtime.GOARCH,
			}
			return opts.output().Success(info, func(w io.Writer) {
				fmt.Fprintf(w, config.MsgVersionOutput, config.AppName, info.Version, info.OS, info.Arch)
			})
		},
	}
}
