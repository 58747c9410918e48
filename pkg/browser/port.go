package browser

import (
	"fmt"
	"net"
)

// allocatePort asks the OS for a free loopback TCP port by binding port 0,
// reading back the assigned port, and releasing the listener. The port is
// handed to the browser process immediately after, which keeps the reuse
// window negligible in practice.
func allocatePort() (int, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPortAllocationFailed, err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	if err := listener.Close(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPortAllocationFailed, err)
	}
	return port, nil
}
