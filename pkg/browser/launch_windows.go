//go:build windows

package browser

import (
	"os/exec"
	"strconv"
	"syscall"
)

// configureSysProcAttr keeps the browser from flashing a console window.
func configureSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
}

// killTree force-kills the browser process and every child it spawned.
// Windows has no process groups in the POSIX sense, so taskkill walks the
// tree by parent pid.
func killTree(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	kill := exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(cmd.Process.Pid))
	kill.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
	if err := kill.Run(); err != nil {
		return cmd.Process.Kill()
	}
	return nil
}
