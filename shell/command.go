package shell

// PipeMode selects where a command stream is connected.
type PipeMode int

const (
	// PipeInherit attaches the stream to the current process's stream.
	PipeInherit PipeMode = iota
	// PipeNull discards the stream.
	PipeNull
	// PipeCapture buffers the stream in memory. For stdin, Data is written
	// to the child; for stdout/stderr, Data receives the child's output.
	PipeCapture
)

// Pipe describes one stream of a command.
type Pipe struct {
	Mode PipeMode
	Data string
}

// Capture returns a Pipe that buffers the stream in memory.
func Capture() Pipe {
	return Pipe{Mode: PipeCapture}
}

// CaptureString returns a capture Pipe pre-loaded with data, used to feed a
// command's stdin.
func CaptureString(data string) Pipe {
	return Pipe{Mode: PipeCapture, Data: data}
}

// Command is a single shell command: what to run, how its streams are wired,
// which exit codes count as success, and (after running) the result.
type Command struct {
	// Command is the command line, run through the configured shell.
	Command string

	// Stdin defaults to PipeNull: the child gets no input.
	Stdin Pipe

	// AcceptedCodes are the exit codes treated as success. Defaults to {0}.
	AcceptedCodes []int

	// Stdout and Stderr default to PipeInherit.
	Stdout Pipe
	Stderr Pipe

	// Code is the exit code after the command has run. nil means the command
	// has not run, or was killed by a signal.
	Code *int
}

// NewCommand returns a Command for the given command line with default
// stream wiring and accepted codes.
func NewCommand(command string) Command {
	return Command{
		Command:       command,
		Stdin:         Pipe{Mode: PipeNull},
		AcceptedCodes: []int{0},
		Stdout:        Pipe{Mode: PipeInherit},
		Stderr:        Pipe{Mode: PipeInherit},
	}
}

// Accepted reports whether the command ran and exited with an accepted code.
func (c *Command) Accepted() bool {
	if c.Code == nil {
		return false
	}
	for _, code := range c.AcceptedCodes {
		if code == *c.Code {
			return true
		}
	}
	return false
}
