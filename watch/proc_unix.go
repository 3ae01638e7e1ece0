//go:build !windows

package watch

import (
	"os/exec"
	"syscall"
)

// setpgid puts the child in its own process group so termination signals
// reach the whole tree (a shell and everything it spawned), not just the
// immediate child.
func setpgid(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminate asks the child's process group to exit.
func terminate(cmd *exec.Cmd) error {
	return syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
}

// kill force-kills the child's process group.
func kill(cmd *exec.Cmd) error {
	return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
