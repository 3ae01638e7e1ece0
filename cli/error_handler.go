package cli

import (
	"fmt"
	"os"

	"github.com/grovetools/sprint/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
	}
}

// Handle provides user-friendly error messages based on error type
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(os.Stderr, "Configuration not found. Create a sprint.yml or pass --config.\n")

	case errors.ErrCodeConfigInvalid:
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)

	case errors.ErrCodeCommandNotFound:
		if sprintErr, ok := err.(*errors.SprintError); ok {
			fmt.Fprintf(os.Stderr, "Command not found: %v\n", sprintErr.Details["command"])
			fmt.Fprintf(os.Stderr, "Make sure it is installed and on your PATH.\n")
		} else {
			fmt.Fprintf(os.Stderr, "Command not found.\n")
		}

	case errors.ErrCodeEventSource:
		fmt.Fprintf(os.Stderr, "File watching failed: %v\n", err)
		fmt.Fprintf(os.Stderr, "On Linux this can mean the inotify watch limit was reached; see fs.inotify.max_user_watches.\n")

	case errors.ErrCodeWatchInit:
		fmt.Fprintf(os.Stderr, "Cannot start watching: %v\n", err)

	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	if h.Verbose {
		if sprintErr, ok := err.(*errors.SprintError); ok {
			fmt.Fprintf(os.Stderr, "%s\n", sprintErr.ToJSON())
		}
	}

	return err
}
