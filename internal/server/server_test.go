package server_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/dbmcp-go/internal/server"
	"github.com/raphaelgruber/dbmcp-go/internal/tools"
)

func testLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newServer(t *testing.T, w io.Writer) *server.Server {
	t.Helper()
	logger := testLogger(w)
	deps := tools.NewDependencies(logger)
	t.Cleanup(func() { _ = deps.Close() })
	return server.New("0.1.0-test", deps, logger)
}

func TestServerCreation(t *testing.T) {
	srv := newServer(t, io.Discard)
	require.NotNil(t, srv, "server should not be nil")
	require.NotNil(t, srv.MCPServer(), "underlying MCP server should not be nil")
}

func TestServerWithInMemoryTransport(t *testing.T) {
	srv := newServer(t, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	session, err := srv.Connect(ctx)
	require.NoError(t, err, "client should connect successfully")
	defer session.Close()

	initResult := session.InitializeResult()
	require.NotNil(t, initResult, "initialize result should not be nil")
	assert.Equal(t, "dbmcp", initResult.ServerInfo.Name)
	assert.Equal(t, "0.1.0-test", initResult.ServerInfo.Version)

	toolsResult, err := session.ListTools(ctx, nil)
	require.NoError(t, err, "ListTools should succeed")
	assert.Len(t, toolsResult.Tools, len(tools.Names()))
}

func TestServerRespondsToMultipleRequests(t *testing.T) {
	srv := newServer(t, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	session, err := srv.Connect(ctx)
	require.NoError(t, err)
	defer session.Close()

	for i := 0; i < 3; i++ {
		result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: tools.ToolServerStats, Arguments: map[string]any{}})
		require.NoError(t, err, "request %d should succeed", i)
		assert.False(t, result.IsError)
	}
}

func TestLoggingMiddlewareMasksPasswords(t *testing.T) {
	var buf bytes.Buffer
	srv := newServer(t, &buf)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	session, err := srv.Connect(ctx)
	require.NoError(t, err)
	defer session.Close()

	_, err = session.CallTool(ctx, &mcp.CallToolParams{
		Name: tools.ToolInitRedis,
		Arguments: map[string]any{
			"host":     "127.0.0.1",
			"port":     1,
			"password": "hunter2",
		},
	})
	require.NoError(t, err)

	logs := buf.String()
	assert.Contains(t, logs, `"request_id"`)
	assert.Contains(t, logs, tools.ToolInitRedis)
	assert.NotContains(t, logs, "hunter2")
}
