// Package browser manages the lifecycle of a single shared Chrome or
// Chromium process.
//
// The package discovers a browser binary on the host, launches it invisibly
// with a dedicated profile directory and a loopback-only DevTools debugging
// port, waits for the debugging endpoint to come up, and attaches a
// protocol connection to it. The resulting Session is cached and handed to
// every caller; the Manager verifies liveness before each reuse and
// replaces sessions whose browser process has died.
//
// Startup and teardown are deliberately strict about cleanup: any failure
// after the process has been spawned kills the process tree and removes the
// profile directory, and teardown always does both even when the graceful
// protocol-level close succeeds only partially.
package browser
