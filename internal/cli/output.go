package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	goerrors "github.com/goliatone/go-errors"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // the API call failed
	ExitCommandError = 2 // bad flags, config or token database
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

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode returns ExitFailure for errors that are not ExitErrors.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter writes command results as JSON envelopes or plain text.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the JSON envelope for every command.
type CLIResponse struct {
	Status string    `json:"status"`
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

type CLIError struct {
	Code     string         `json:"code"`
	Category string         `json:"category,omitempty"`
	Message  string         `json:"message"`
	Details  map[string]any `json:"details,omitempty"`
}

// Success writes data. In text mode render prints it instead.
func (f *OutputFormatter) Success(data any, render func(io.Writer) error) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}
	if render != nil {
		return render(f.Writer)
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Failure writes err and returns it wrapped in an ExitError with code.
func (f *OutputFormatter) Failure(code int, err error) error {
	cliErr := describeError(err)
	var writeErr error
	if f.Format == "json" {
		writeErr = f.encode(CLIResponse{Status: "error", Error: cliErr})
	} else {
		_, writeErr = fmt.Fprintf(f.Writer, "Error [%s]: %s\n", cliErr.Code, cliErr.Message)
	}
	if writeErr != nil {
		return WrapExitError(code, "write output", writeErr)
	}
	return WrapExitError(code, cliErr.Code, err)
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	encoder := json.NewEncoder(f.Writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(resp)
}

func describeError(err error) *CLIError {
	out := &CLIError{Code: "MEETUP_CLI_ERROR", Message: "unknown error"}
	if err == nil {
		return out
	}
	out.Message = err.Error()
	var envelope *goerrors.Error
	if goerrors.As(err, &envelope) && envelope != nil {
		if envelope.TextCode != "" {
			out.Code = envelope.TextCode
		}
		out.Category = envelope.Category.String()
		out.Message = envelope.Message
		if len(envelope.Metadata) > 0 {
			out.Details = envelope.Metadata
		}
	}
	return out
}
