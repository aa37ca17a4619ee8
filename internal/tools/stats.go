package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/raphaelgruber/dbmcp-go/internal/metrics"
)

// ServerStats is the data of the getServerStats envelope.
type ServerStats struct {
	metrics.Snapshot
	SQLReady   bool `json:"sqlReady"`
	RedisReady bool `json:"redisReady"`
}

// NewServerStatsHandler creates the getServerStats handler.
func NewServerStatsHandler(deps *Dependencies) mcp.ToolHandlerFor[struct{}, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
		stats := ServerStats{
			Snapshot:   deps.Metrics.Snapshot(),
			SQLReady:   deps.SQL.Ready(),
			RedisReady: deps.KV.Ready(),
		}
		return deps.envelope("getServerStats", stats, nil), nil, nil
	}
}
