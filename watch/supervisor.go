package watch

import (
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/google/shlex"
	"github.com/sirupsen/logrus"

	sprinterrors "github.com/grovetools/sprint/errors"
	"github.com/grovetools/sprint/shell"
)

// procState tracks the supervised slot through its explicit transitions:
// idle -> live -> terminating -> idle.
type procState int

const (
	stateIdle procState = iota
	stateLive
	stateTerminating
)

// Supervisor owns the lifecycle of the currently running child command. At
// most one child is live at any time: a trigger never proceeds to spawn
// until the prior process is confirmed terminated.
type Supervisor struct {
	prog  string
	args  []string
	grace time.Duration

	executor shell.Executor
	logger   *logrus.Entry

	// triggerMu serializes whole kill-and-rerun sequences so two triggers
	// can never overlap.
	triggerMu sync.Mutex

	// mu guards the slot below; the exit monitor and the trigger handler
	// both touch it.
	mu        sync.Mutex
	state     procState
	cmd       *exec.Cmd
	startedAt time.Time
	waitDone  chan struct{}
}

// NewSupervisor prepares a supervisor for the given command line. A non-empty
// shellInvocation (e.g. "sh -c") receives the command as its final argument;
// an empty one means the command line is word-split and run directly.
func NewSupervisor(shellInvocation, command string, grace time.Duration, logger *logrus.Entry) (*Supervisor, error) {
	var prog string
	var args []string

	if shellInvocation != "" {
		words, err := shlex.Split(shellInvocation)
		if err != nil || len(words) == 0 {
			return nil, sprinterrors.InvalidInput("invalid shell invocation: " + shellInvocation)
		}
		prog = words[0]
		args = append(words[1:], command)
	} else {
		words, err := shlex.Split(command)
		if err != nil || len(words) == 0 {
			return nil, sprinterrors.InvalidInput("invalid command: " + command)
		}
		prog = words[0]
		args = words[1:]
	}

	return &Supervisor{
		prog:     prog,
		args:     args,
		grace:    grace,
		executor: &shell.RealExecutor{},
		logger:   logger,
	}, nil
}

// OnTrigger terminates the previous child if it is still running, waits for
// its confirmed exit, and spawns the replacement. A spawn failure is
// returned for reporting but leaves the supervisor ready for the next
// trigger.
func (s *Supervisor) OnTrigger() error {
	s.triggerMu.Lock()
	defer s.triggerMu.Unlock()

	s.Stop()
	return s.spawn()
}

// Stop terminates the current child, if any, and blocks until its exit is
// confirmed. The termination request is polite first (the grace period
// applies), forced after. Stopping an already-exited child is a no-op: the
// kill race is success.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	if s.state == stateIdle || s.cmd == nil {
		s.mu.Unlock()
		return
	}
	s.state = stateTerminating
	cmd, done := s.cmd, s.waitDone
	s.mu.Unlock()

	s.logger.WithField("pid", cmd.Process.Pid).Debug("terminating running command")
	if err := terminate(cmd); err != nil {
		// Already gone between the liveness check and the signal.
		s.logger.WithError(err).Debug("termination signal not delivered")
	}

	select {
	case <-done:
	case <-time.After(s.grace):
		s.logger.WithField("pid", cmd.Process.Pid).Warn("grace period elapsed, force-killing")
		if err := kill(cmd); err != nil {
			s.logger.WithError(err).Debug("force-kill signal not delivered")
		}
		<-done
	}
}

// spawn starts the configured command attached to the current terminal and
// monitors its exit in the background.
func (s *Supervisor) spawn() error {
	cmd := s.executor.Command(s.prog, s.args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	setpgid(cmd)

	if err := cmd.Start(); err != nil {
		return sprinterrors.SpawnFailed(s.prog, err)
	}

	done := make(chan struct{})

	s.mu.Lock()
	s.cmd = cmd
	s.state = stateLive
	s.startedAt = time.Now()
	s.waitDone = done
	s.mu.Unlock()

	s.logger.WithField("pid", cmd.Process.Pid).Debug("command started")

	go s.monitor(cmd, done)
	return nil
}

// monitor waits for the child and releases the slot. Exit codes are
// reported but never escalate: a failing command simply waits for the next
// trigger.
func (s *Supervisor) monitor(cmd *exec.Cmd, done chan struct{}) {
	err := cmd.Wait()

	s.mu.Lock()
	s.state = stateIdle
	s.mu.Unlock()
	close(done)

	switch {
	case err == nil:
		s.logger.Debug("command exited with code 0")
	case cmd.ProcessState != nil && cmd.ProcessState.ExitCode() >= 0:
		s.logger.Infof("command exited with code %d", cmd.ProcessState.ExitCode())
	default:
		s.logger.Info("command terminated by signal")
	}
}

// Alive reports whether a child is currently live (spawned and not yet
// confirmed exited or terminating).
func (s *Supervisor) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateLive
}

// ProcessID returns the pid of the current child, if one is live or
// terminating.
func (s *Supervisor) ProcessID() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == stateIdle || s.cmd == nil || s.cmd.Process == nil {
		return 0, false
	}
	return s.cmd.Process.Pid, true
}

// StartedAt returns when the current child was spawned.
func (s *Supervisor) StartedAt() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == stateIdle {
		return time.Time{}, false
	}
	return s.startedAt, true
}
