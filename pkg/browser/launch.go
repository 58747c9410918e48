package browser

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// launchSpec carries everything the launcher needs to spawn one browser
// process bound to a dedicated debugging port and profile directory.
type launchSpec struct {
	execPath   string
	debugPort  int
	profileDir string
	headless   bool
}

// chromeArgs builds the flag set for an invisible, automation-friendly
// browser process. The debugging endpoint binds to loopback only.
func chromeArgs(spec launchSpec) []string {
	args := []string{
		"--remote-debugging-port=" + strconv.Itoa(spec.debugPort),
		"--remote-debugging-address=127.0.0.1",
		"--user-data-dir=" + spec.profileDir,
		"--no-first-run",
		"--no-default-browser-check",
		"--no-sandbox",
		"--disable-gpu",
		"--disable-background-networking",
		"--disable-background-timer-throttling",
		"--disable-renderer-backgrounding",
		"--disable-sync",
		"--disable-translate",
		"--disable-extensions",
		"--disable-default-apps",
		"--mute-audio",
	}
	if spec.headless {
		args = append(args, "--headless=new")
	}
	args = append(args, "about:blank")
	return args
}

// launchProcess spawns the browser. On spawn failure the profile directory
// is removed so a failed launch leaves nothing behind. The returned channel
// closes once the process has been reaped, so no zombie survives teardown.
func launchProcess(spec launchSpec) (*exec.Cmd, <-chan struct{}, error) {
	cmd := exec.Command(spec.execPath, chromeArgs(spec)...)
	configureSysProcAttr(cmd)

	if err := cmd.Start(); err != nil {
		os.RemoveAll(spec.profileDir)
		return nil, nil, fmt.Errorf("%w: %v", ErrLaunchFailed, err)
	}

	exited := make(chan struct{})
	go func() {
		cmd.Wait()
		close(exited)
	}()

	return cmd, exited, nil
}
