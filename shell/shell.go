// Package shell runs one or more shell commands with fenced, colored output
// framing, optional dry-run, and per-stream capture.
package shell

import (
	"bytes"
	"os"
	"strings"
	"sync"

	"github.com/google/shlex"
	"github.com/sirupsen/logrus"

	sprinterrors "github.com/grovetools/sprint/errors"
	"github.com/grovetools/sprint/logging"
)

// Shell is the command runner configuration.
type Shell struct {
	// Shell is the shell invocation the command line is passed to, e.g.
	// "sh -c". Empty means run the command directly after word-splitting it.
	Shell string

	// DryRun echoes commands without running them.
	DryRun bool

	// Sync runs commands sequentially, stopping at the first failure. When
	// false, commands run concurrently.
	Sync bool

	// Print enables the fenced framing and command echo.
	Print bool

	// Fence, Info, and Prompt control the framing text.
	Fence  string
	Info   string
	Prompt string

	printer  *Printer
	executor Executor
	logger   *logrus.Entry
}

// New returns a Shell with the traditional defaults: "sh -c", sequential,
// printing enabled, markdown code fences.
func New() *Shell {
	return &Shell{
		Shell:    "sh -c",
		Sync:     true,
		Print:    true,
		Fence:    "```",
		Info:     "text",
		Prompt:   "$ ",
		printer:  NewStdoutPrinter(false),
		executor: &RealExecutor{},
		logger:   logging.NewLogger("shell"),
	}
}

// SetPrinter overrides the output printer. Used by the CLI layer for
// --no-color and by tests to capture framing output.
func (s *Shell) SetPrinter(p *Printer) {
	s.printer = p
}

// Printer returns the output printer, so callers sharing the terminal (the
// interactive prompt) can match the shell's styling.
func (s *Shell) Printer() *Printer {
	return s.printer
}

// SetExecutor overrides the command factory. Used by tests.
func (s *Shell) SetExecutor(e Executor) {
	s.executor = e
}

// Run runs the given commands and returns them with results filled in.
//
// In Sync mode commands run in order inside one printed fence; the first
// command that exits with an unaccepted code (or dies to a signal) stops the
// run, and the returned error describes it. In concurrent mode all commands
// run in parallel with no framing and the first failure (by input order) is
// returned.
func (s *Shell) Run(commands []Command) ([]Command, error) {
	if !s.Sync {
		return s.runConcurrent(commands)
	}

	if s.Print {
		s.printer.Print(s.printer.Dim(s.Fence))
		s.printer.Println(s.printer.Dim(s.Info))
	}

	results := make([]Command, 0, len(commands))
	var runErr error

	for i, command := range commands {
		if i > 0 && s.Print && !s.DryRun {
			s.printer.Println("")
		}

		result, err := s.Run1(command)
		results = append(results, result)

		if err != nil {
			runErr = err
		} else if !s.DryRun && result.Code == nil {
			runErr = sprinterrors.CommandSignaled(result.Command)
		} else if !s.DryRun && !result.Accepted() {
			runErr = sprinterrors.CommandFailed(result.Command, *result.Code)
		}

		if runErr != nil {
			break
		}
	}

	if s.Print {
		s.printer.Println(s.printer.Dim(s.Fence) + "\n")

		if runErr != nil {
			s.printer.Println(s.printer.Error("**"+runErr.Error()+"**") + "\n")
		}
	}

	return results, runErr
}

// runConcurrent runs all commands in parallel.
func (s *Shell) runConcurrent(commands []Command) ([]Command, error) {
	results := make([]Command, len(commands))
	errs := make([]error, len(commands))

	var wg sync.WaitGroup
	for i, command := range commands {
		wg.Add(1)
		go func(i int, command Command) {
			defer wg.Done()
			results[i], errs[i] = s.Run1(command)
		}(i, command)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return results, err
		}
		if s.DryRun {
			continue
		}
		if results[i].Code == nil {
			return results, sprinterrors.CommandSignaled(results[i].Command)
		}
		if !results[i].Accepted() {
			return results, sprinterrors.CommandFailed(results[i].Command, *results[i].Code)
		}
	}
	return results, nil
}

// Run1 echoes and runs a single command, honoring DryRun.
func (s *Shell) Run1(command Command) (Command, error) {
	if s.Print {
		if !s.DryRun {
			s.printer.Print(s.printer.Dim(s.Prompt))
		}
		s.printer.Println(s.printer.Command(wrapEcho(command.Command)))
	}

	if s.DryRun {
		return command, nil
	}

	return s.Exec(command)
}

// Pipe runs a single command with stdout captured and returns the output.
func (s *Shell) Pipe(command string) (string, error) {
	c := NewCommand(command)
	c.Stdout = Capture()

	result, err := s.Exec(c)
	if err != nil {
		return "", err
	}
	return result.Stdout.Data, nil
}

// Exec runs a command without any printing. The returned Command carries the
// exit code (nil if killed by a signal) and any captured output. A non-nil
// error means the command could not be started at all.
func (s *Shell) Exec(command Command) (Command, error) {
	prog, args, err := s.prepare(command.Command)
	if err != nil {
		return command, sprinterrors.InvalidInput("cannot parse command: " + err.Error())
	}

	cmd := s.executor.Command(prog, args...)

	var stdout, stderr bytes.Buffer
	switch command.Stdin.Mode {
	case PipeCapture:
		cmd.Stdin = strings.NewReader(command.Stdin.Data)
	case PipeInherit:
		cmd.Stdin = os.Stdin
	}
	switch command.Stdout.Mode {
	case PipeCapture:
		cmd.Stdout = &stdout
	case PipeInherit:
		cmd.Stdout = os.Stdout
	}
	switch command.Stderr.Mode {
	case PipeCapture:
		cmd.Stderr = &stderr
	case PipeInherit:
		cmd.Stderr = os.Stderr
	}

	result := command
	runErr := cmd.Run()

	switch {
	case runErr == nil:
		code := 0
		result.Code = &code
	case cmd.ProcessState != nil:
		// The command started and ended. ExitCode is -1 when the process
		// died to a signal; Code stays nil in that case.
		if code := cmd.ProcessState.ExitCode(); code >= 0 {
			result.Code = &code
		}
	default:
		// The command never started.
		s.logger.WithError(runErr).WithField("command", command.Command).Debug("spawn failed")
		return result, sprinterrors.SpawnFailed(command.Command, runErr)
	}

	if command.Stdout.Mode == PipeCapture {
		result.Stdout.Data = stdout.String()
	}
	if command.Stderr.Mode == PipeCapture {
		result.Stderr.Data = stderr.String()
	}

	return result, nil
}

// prepare splits the configured shell invocation and appends the command
// line, or word-splits the command itself when no shell is configured.
func (s *Shell) prepare(command string) (string, []string, error) {
	if s.Shell != "" {
		args, err := shlex.Split(s.Shell)
		if err != nil || len(args) == 0 {
			return "", nil, sprinterrors.InvalidInput("invalid shell invocation: " + s.Shell)
		}
		return args[0], append(args[1:], command), nil
	}

	args, err := shlex.Split(command)
	if err != nil || len(args) == 0 {
		return "", nil, sprinterrors.InvalidInput("invalid command: " + command)
	}
	return args[0], args[1:], nil
}

// wrapEcho breaks long chained command lines across lines at the usual shell
// connectives, matching how the command is echoed above its output.
func wrapEcho(command string) string {
	r := strings.NewReplacer(
		" && ", " \\\n&& ",
		" || ", " \\\n|| ",
		"; ", "; \\\n",
	)
	return r.Replace(command)
}
