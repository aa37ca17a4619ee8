package tools

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names. They are part of the wire contract with existing callers.
const (
	ToolInitDatabase   = "initDatabaseConnection"
	ToolListTables     = "getAllTableNames"
	ToolDescribeTable  = "getTableStructure"
	ToolExecuteSQL     = "executeSQL"
	ToolInitRedis      = "initRedisConnection"
	ToolListKeys       = "getAllKeys"
	ToolKeyInfo        = "getKeyInfo"
	ToolExecuteCommand = "executeCommand"
	ToolSetString      = "setStringValue"
	ToolGetString      = "getStringValue"
	ToolDeleteKey      = "deleteKey"
	ToolServerStats    = "getServerStats"
)

// RegisterAll registers all tools with the MCP server.
// This is called from main after server creation but before Run().
func RegisterAll(server *mcp.Server, deps *Dependencies) {
	// Relational database
	add(server, deps, ToolInitDatabase,
		"Initialize the relational database connection. Replaces the current connection only if the new one answers a test round-trip",
		NewInitDatabaseHandler(deps))
	add(server, deps, ToolListTables,
		"List all table names in the current database",
		NewListTablesHandler(deps))
	add(server, deps, ToolDescribeTable,
		"Describe the columns and primary keys of a table",
		NewDescribeTableHandler(deps))
	add(server, deps, ToolExecuteSQL,
		"Execute a SQL statement. SELECT returns rows, other statements return the affected row count",
		NewExecuteSQLHandler(deps))

	// Redis
	add(server, deps, ToolInitRedis,
		"Initialize the Redis connection. Replaces the current connection only if the new one answers PING",
		NewInitRedisHandler(deps))
	add(server, deps, ToolListKeys,
		"List all Redis keys",
		NewListKeysHandler(deps))
	add(server, deps, ToolKeyInfo,
		"Get the type, TTL and a preview of the value of a Redis key",
		NewKeyInfoHandler(deps))
	add(server, deps, ToolExecuteCommand,
		"Execute a Redis command line such as GET k, HSET h f v or ZRANGE z 0 -1",
		NewExecuteCommandHandler(deps))
	add(server, deps, ToolSetString,
		"Set a string value with an optional expiry in seconds",
		NewSetStringHandler(deps))
	add(server, deps, ToolGetString,
		"Get a string value and its TTL",
		NewGetStringHandler(deps))
	add(server, deps, ToolDeleteKey,
		"Delete a Redis key",
		NewDeleteKeyHandler(deps))

	// Diagnostics
	add(server, deps, ToolServerStats,
		"Report per-tool call counts, errors and latency plus connection state",
		NewServerStatsHandler(deps))
}

// Names returns the registered tool names in registration order.
func Names() []string {
	return []string{
		ToolInitDatabase, ToolListTables, ToolDescribeTable, ToolExecuteSQL,
		ToolInitRedis, ToolListKeys, ToolKeyInfo, ToolExecuteCommand,
		ToolSetString, ToolGetString, ToolDeleteKey,
		ToolServerStats,
	}
}

func add[In any](server *mcp.Server, deps *Dependencies, name, description string, h mcp.ToolHandlerFor[In, any]) {
	mcp.AddTool(server, &mcp.Tool{Name: name, Description: description}, timed(deps, name, h))
}

// timed records call duration and outcome for every tool call.
func timed[In any](deps *Dependencies, name string, h mcp.ToolHandlerFor[In, any]) mcp.ToolHandlerFor[In, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input In) (*mcp.CallToolResult, any, error) {
		start := time.Now()
		result, out, err := h(ctx, req, input)
		deps.Metrics.Record(name, time.Since(start), err != nil || (result != nil && result.IsError))
		return result, out, err
	}
}
