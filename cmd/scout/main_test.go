package main

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/scout/pkg/logging"
	"github.com/entrhq/scout/pkg/tools"
)

type countingTool struct {
	name  string
	calls atomic.Int32
}

func (t *countingTool) Name() string        { return t.name }
func (t *countingTool) Description() string { return "counts executions" }

func (t *countingTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{}, nil)
}

func (t *countingTool) Execute(ctx context.Context, argumentsXML []byte) (string, error) {
	t.calls.Add(1)
	return "ok", nil
}

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	logger, _ := logging.NewLogger("test")
	t.Cleanup(func() { logger.Close() })
	return logger
}

func TestServeReturnsOnContextCancelWhileBlocked(t *testing.T) {
	// An open pipe with no data keeps the reader blocked, the way an idle
	// stdin does.
	reader, writer := io.Pipe()
	defer writer.Close()
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	logger := testLogger(t)

	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, tools.NewRegistry(), logger, reader)
	}()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not return after context cancellation")
	}
}

func TestServeDispatchesAndStopsOnEOF(t *testing.T) {
	registry := tools.NewRegistry()
	counter := &countingTool{name: "count"}
	require.NoError(t, registry.Register(counter))

	reader, writer := io.Pipe()
	logger := testLogger(t)
	done := make(chan error, 1)
	go func() {
		done <- serve(context.Background(), registry, logger, reader)
	}()

	_, err := io.WriteString(writer,
		"<tool><tool_name>count</tool_name><arguments></arguments></tool>\n")
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not return after EOF")
	}
	assert.Equal(t, int32(1), counter.calls.Load())
}

func TestServeDispatchesMultipleCallsInOneChunk(t *testing.T) {
	registry := tools.NewRegistry()
	counter := &countingTool{name: "count"}
	require.NoError(t, registry.Register(counter))

	reader, writer := io.Pipe()
	logger := testLogger(t)
	done := make(chan error, 1)
	go func() {
		done <- serve(context.Background(), registry, logger, reader)
	}()

	// Two complete tool calls arriving on a single line must both run.
	_, err := io.WriteString(writer,
		"<tool><tool_name>count</tool_name><arguments></arguments></tool>"+
			"<tool><tool_name>count</tool_name><arguments></arguments></tool>\n")
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not return after EOF")
	}
	assert.Equal(t, int32(2), counter.calls.Load())
}
