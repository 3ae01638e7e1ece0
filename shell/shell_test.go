package shell

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sprinterrors "github.com/grovetools/sprint/errors"
)

// newTestShell returns a Shell printing into buf with color disabled.
func newTestShell(buf *bytes.Buffer) *Shell {
	s := New()
	s.SetPrinter(NewPrinter(buf, false))
	return s
}

func TestRunSequential(t *testing.T) {
	var buf bytes.Buffer
	s := newTestShell(&buf)

	results, err := s.Run([]Command{
		NewCommand("true"),
		NewCommand("true"),
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		require.NotNil(t, r.Code)
		assert.Equal(t, 0, *r.Code)
		assert.True(t, r.Accepted())
	}

	out := buf.String()
	assert.Contains(t, out, "```text")
	assert.Contains(t, out, "$ true")
}

func TestRunStopsOnFailure(t *testing.T) {
	var buf bytes.Buffer
	s := newTestShell(&buf)

	results, err := s.Run([]Command{
		NewCommand("false"),
		NewCommand("true"),
	})
	require.Error(t, err)
	assert.Equal(t, sprinterrors.ErrCodeCommandFailed, sprinterrors.GetCode(err))
	assert.Len(t, results, 1, "second command should not run after a failure")
	assert.Contains(t, buf.String(), "exited with code")
}

func TestRunAcceptedCodes(t *testing.T) {
	var buf bytes.Buffer
	s := newTestShell(&buf)

	cmd := NewCommand("exit 3")
	cmd.AcceptedCodes = []int{0, 3}

	results, err := s.Run([]Command{cmd})
	require.NoError(t, err)
	require.NotNil(t, results[0].Code)
	assert.Equal(t, 3, *results[0].Code)
}

func TestRunDryRun(t *testing.T) {
	var buf bytes.Buffer
	s := newTestShell(&buf)
	s.DryRun = true

	results, err := s.Run([]Command{NewCommand("definitely-not-a-real-command")})
	require.NoError(t, err)
	assert.Nil(t, results[0].Code)
	assert.Contains(t, buf.String(), "definitely-not-a-real-command")
}

func TestRunConcurrent(t *testing.T) {
	var buf bytes.Buffer
	s := newTestShell(&buf)
	s.Sync = false
	s.Print = false

	a := NewCommand("echo a")
	a.Stdout = Capture()
	b := NewCommand("echo b")
	b.Stdout = Capture()

	results, err := s.Run([]Command{a, b})
	require.NoError(t, err)
	assert.Equal(t, "a\n", results[0].Stdout.Data)
	assert.Equal(t, "b\n", results[1].Stdout.Data)
}

func TestPipe(t *testing.T) {
	var buf bytes.Buffer
	s := newTestShell(&buf)

	out, err := s.Pipe("echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

func TestExecStdinCapture(t *testing.T) {
	var buf bytes.Buffer
	s := newTestShell(&buf)

	c := NewCommand("cat")
	c.Stdin = CaptureString("fed to stdin")
	c.Stdout = Capture()

	result, err := s.Exec(c)
	require.NoError(t, err)
	assert.Equal(t, "fed to stdin", result.Stdout.Data)
}

func TestExecStderrCapture(t *testing.T) {
	var buf bytes.Buffer
	s := newTestShell(&buf)

	c := NewCommand("echo oops >&2")
	c.Stderr = Capture()

	result, err := s.Exec(c)
	require.NoError(t, err)
	assert.Equal(t, "oops\n", result.Stderr.Data)
}

func TestExecDirectWithoutShell(t *testing.T) {
	var buf bytes.Buffer
	s := newTestShell(&buf)
	s.Shell = ""

	c := NewCommand(`echo "one two"`)
	c.Stdout = Capture()

	result, err := s.Exec(c)
	require.NoError(t, err)
	assert.Equal(t, "one two\n", result.Stdout.Data)
}

func TestExecSpawnFailure(t *testing.T) {
	var buf bytes.Buffer
	s := newTestShell(&buf)
	s.Shell = "" // run directly so the missing binary fails the spawn

	_, err := s.Exec(NewCommand("sprint-test-no-such-binary"))
	require.Error(t, err)
	assert.Equal(t, sprinterrors.ErrCodeCommandNotFound, sprinterrors.GetCode(err))
}

func TestWrapEcho(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "ls -l", "ls -l"},
		{"and chain", "make && make test", "make \\\n&& make test"},
		{"or chain", "true || false", "true \\\n|| false"},
		{"semicolon", "cd /tmp; ls", "cd /tmp; \\\nls"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapEcho(tt.input))
		})
	}
}
