package errors

import (
	"errors"
	"fmt"
	"os/exec"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *SprintError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *SprintError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// CommandFailed creates a command failure error
func CommandFailed(command string, code int) *SprintError {
	return New(ErrCodeCommandFailed,
		fmt.Sprintf("command `%s` exited with code: %d", command, code)).
		WithDetail("command", command).
		WithDetail("code", code)
}

// CommandSignaled creates an error for a command killed by a signal
func CommandSignaled(command string) *SprintError {
	return New(ErrCodeCommandSignaled,
		fmt.Sprintf("command `%s` was killed by a signal", command)).
		WithDetail("command", command)
}

// SpawnFailed creates a spawn failure error. It classifies exec.ErrNotFound
// separately so callers can suggest installing the missing program.
func SpawnFailed(command string, err error) *SprintError {
	if errors.Is(err, exec.ErrNotFound) {
		return Wrap(err, ErrCodeCommandNotFound,
			fmt.Sprintf("command not found: %s", command)).
			WithDetail("command", command)
	}
	return Wrap(err, ErrCodeSpawnFailed,
		fmt.Sprintf("failed to spawn command: %s", command)).
		WithDetail("command", command)
}

// WatchInit creates a watch initialization error
func WatchInit(err error) *SprintError {
	return Wrap(err, ErrCodeWatchInit, "failed to initialize file watcher")
}

// WatchPathInvalid creates an error for an unwatchable path
func WatchPathInvalid(path string, err error) *SprintError {
	return Wrap(err, ErrCodeWatchInit,
		fmt.Sprintf("cannot watch path: %s", path)).
		WithDetail("path", path)
}

// IgnoreFileUnreadable creates an error for an unreadable ignore file
func IgnoreFileUnreadable(path string, err error) *SprintError {
	return Wrap(err, ErrCodeIgnoreFile,
		fmt.Sprintf("cannot read ignore file: %s", path)).
		WithDetail("path", path)
}

// EventSourceFailed creates an error for a failed notifier backend
func EventSourceFailed(err error) *SprintError {
	return Wrap(err, ErrCodeEventSource, "file event source failed")
}

// InvalidInput creates an invalid input error
func InvalidInput(reason string) *SprintError {
	return New(ErrCodeInvalidInput, reason)
}

// Internal creates an internal error
func Internal(err error, message string) *SprintError {
	return Wrap(err, ErrCodeInternal, message)
}
