//go:build !windows

package watch

import (
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sprinterrors "github.com/grovetools/sprint/errors"
	"github.com/grovetools/sprint/logging"
)

func newTestSupervisor(t *testing.T, command string, grace time.Duration) *Supervisor {
	t.Helper()
	s, err := NewSupervisor("sh -c", command, grace, logging.NewLogger("watch-test"))
	require.NoError(t, err)
	t.Cleanup(s.Stop)
	return s
}

// processGone reports whether pid no longer exists (or is a zombie already
// reaped by the supervisor's monitor).
func processGone(pid int) bool {
	return syscall.Kill(pid, syscall.Signal(0)) == syscall.ESRCH
}

func TestSupervisorRunsCommandToCompletion(t *testing.T) {
	s := newTestSupervisor(t, "true", 5*time.Second)

	require.NoError(t, s.OnTrigger())

	assert.Eventually(t, func() bool { return !s.Alive() },
		2*time.Second, 10*time.Millisecond, "a finished command should release the slot")
}

func TestSupervisorKillsPriorBeforeRespawn(t *testing.T) {
	grace := 5 * time.Second
	s := newTestSupervisor(t, "sleep 2", grace)

	require.NoError(t, s.OnTrigger())
	pid1, ok := s.ProcessID()
	require.True(t, ok)

	time.Sleep(50 * time.Millisecond)

	start := time.Now()
	require.NoError(t, s.OnTrigger())
	elapsed := time.Since(start)

	pid2, ok := s.ProcessID()
	require.True(t, ok)

	assert.NotEqual(t, pid1, pid2, "the replacement is a new process")
	assert.True(t, processGone(pid1), "the prior process must be terminated before the replacement starts")
	assert.Less(t, elapsed, grace, "a SIGTERM-able command exits well before the grace deadline")
	assert.True(t, s.Alive())
}

func TestSupervisorAtMostOneLive(t *testing.T) {
	s := newTestSupervisor(t, "sleep 1", 5*time.Second)

	var pids []int
	for i := 0; i < 3; i++ {
		require.NoError(t, s.OnTrigger())
		pid, ok := s.ProcessID()
		require.True(t, ok)

		for _, prior := range pids {
			assert.True(t, processGone(prior),
				"no prior supervised process may still be live")
		}
		pids = append(pids, pid)
	}
}

func TestSupervisorForceKillsAfterGrace(t *testing.T) {
	// The child traps SIGTERM, so only the force-kill can end it.
	s := newTestSupervisor(t, `trap "" TERM; sleep 10`, 200*time.Millisecond)

	require.NoError(t, s.OnTrigger())
	pid, ok := s.ProcessID()
	require.True(t, ok)

	start := time.Now()
	s.Stop()
	elapsed := time.Since(start)

	assert.True(t, processGone(pid))
	assert.GreaterOrEqual(t, elapsed, 200*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)
	assert.False(t, s.Alive())
}

func TestSupervisorStopIdempotent(t *testing.T) {
	s := newTestSupervisor(t, "true", time.Second)

	// Stop with nothing running is a no-op.
	s.Stop()

	require.NoError(t, s.OnTrigger())
	require.Eventually(t, func() bool { return !s.Alive() }, 2*time.Second, 10*time.Millisecond)

	// Stop after the child already exited is the kill race; treated as done.
	s.Stop()
	s.Stop()
}

func TestSupervisorSpawnFailureIsNotFatal(t *testing.T) {
	s, err := NewSupervisor("", "sprint-test-no-such-binary", time.Second, logging.NewLogger("watch-test"))
	require.NoError(t, err)

	err = s.OnTrigger()
	require.Error(t, err)
	assert.Equal(t, sprinterrors.ErrCodeCommandNotFound, sprinterrors.GetCode(err))
	assert.False(t, s.Alive())

	// The supervisor keeps accepting triggers after a failed spawn.
	err = s.OnTrigger()
	require.Error(t, err)
}

func TestNewSupervisorRejectsBadShell(t *testing.T) {
	_, err := NewSupervisor("sh -c 'unterminated", "true", time.Second, logging.NewLogger("watch-test"))
	assert.Error(t, err)
}
