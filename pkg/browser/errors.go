package browser

import "errors"

var (
	// ErrExecutableNotFound indicates no Chrome or Chromium binary could be
	// discovered on this machine
	ErrExecutableNotFound = errors.New("no chrome or chromium executable found")

	// ErrPortAllocationFailed indicates the OS could not hand out a free
	// loopback port for the debugging endpoint
	ErrPortAllocationFailed = errors.New("failed to allocate debugging port")

	// ErrLaunchFailed indicates the browser process could not be spawned
	ErrLaunchFailed = errors.New("failed to launch browser process")

	// ErrHandshakeTimeout indicates the browser process started but its
	// debugging endpoint never became ready within the retry budget
	ErrHandshakeTimeout = errors.New("browser debugging endpoint never became ready")

	// ErrManagerClosed indicates the manager has been shut down and will
	// not create further sessions
	ErrManagerClosed = errors.New("browser manager is shut down")
)
