//go:build unix

package maven

import (
	"os/exec"
	"syscall"
)

// configureProcess starts the command in its own process group so that a
// timeout kills Maven's JVM and any children along with the wrapper script.
func configureProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
