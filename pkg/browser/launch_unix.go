//go:build !windows

package browser

import (
	"os/exec"
	"syscall"
)

// configureSysProcAttr puts the browser in its own process group so the
// whole tree of renderer and GPU children can be killed together.
func configureSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killTree force-kills the browser process and every child it spawned by
// signalling the process group.
func killTree(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL); err != nil {
		// Fall back to the direct process if the group is already gone.
		return cmd.Process.Kill()
	}
	return nil
}
