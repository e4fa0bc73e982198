package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tartampluch/go-cycle/internal/config"
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError without an underlying cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError attaches an exit code to err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// ExitCode extracts the exit code from err. Errors without one map to config.ExitCodeError.
func ExitCode(err error) int {
	if err == nil {
		return config.ExitCodeSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return config.ExitCodeError
}

// Response is the JSON envelope written with --format json.
type Response struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Output writes command results in the selected format.
type Output struct {
	Format string
	Writer io.Writer
}

// JSON reports whether structured output was requested.
func (o *Output) JSON() bool {
	return o.Format == config.FormatJSON
}

// Success writes data. In text mode render is used; in JSON mode data is encoded.
func (o *Output) Success(data any, render func(w io.Writer)) error {
	if o.JSON() {
		enc := json.NewEncoder(o.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(Response{Status: "ok", Data: data})
	}
	render(o.Writer)
	return nil
}

// Failure reports err in the selected format.
func (o *Output) Failure(err error) {
	if o.JSON() {
		_ = json.NewEncoder(o.Writer).Encode(Response{Status: "error", Error: err.Error()})
		return
	}
	fmt.Fprintf(o.Writer, "Error: %v\n", err)
}

func isValidFormat(format string) bool {
	for _, f := range config.ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
