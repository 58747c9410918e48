package browser

import (
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocatePort(t *testing.T) {
	port, err := allocatePort()
	require.NoError(t, err)
	assert.Greater(t, port, 0)
	assert.LessOrEqual(t, port, 65535)

	// The port must be usable immediately after allocation.
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	require.NoError(t, err)
	listener.Close()
}

func TestAllocatePortDistinct(t *testing.T) {
	seen := make(map[int]bool)
	listeners := make([]net.Listener, 0, 5)
	defer func() {
		for _, l := range listeners {
			l.Close()
		}
	}()

	// Hold each port open so consecutive allocations cannot collide.
	for i := 0; i < 5; i++ {
		port, err := allocatePort()
		require.NoError(t, err)
		assert.False(t, seen[port], "port %d allocated twice", port)
		seen[port] = true

		l, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		require.NoError(t, err)
		listeners = append(listeners, l)
	}
}
