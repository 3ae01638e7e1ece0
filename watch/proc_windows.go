//go:build windows

package watch

import "os/exec"

// Windows has no process groups in the POSIX sense; Kill is the only
// termination primitive, for both the polite and the forced path.
func setpgid(cmd *exec.Cmd) {}

func terminate(cmd *exec.Cmd) error {
	return cmd.Process.Kill()
}

func kill(cmd *exec.Cmd) error {
	return cmd.Process.Kill()
}
