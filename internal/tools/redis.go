package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/raphaelgruber/dbmcp-go/internal/kvstore"
)

const redisInitialized = "redis connection initialized"

// InitRedisInput defines the input schema for initRedisConnection.
type InitRedisInput struct {
	Host     string `json:"host" jsonschema:"Redis host name or address"`
	Port     int    `json:"port" jsonschema:"Redis port, usually 6379"`
	Password string `json:"password,omitempty" jsonschema:"Redis password, empty for none"`
}

// KeyInput defines the input schema for tools addressing a single key.
type KeyInput struct {
	Key string `json:"key" jsonschema:"Redis key"`
}

// ExecuteCommandInput defines the input schema for executeCommand.
type ExecuteCommandInput struct {
	Command string `json:"command" jsonschema:"Redis command line, for example: SET k v EX 10"`
}

// SetStringInput defines the input schema for setStringValue.
type SetStringInput struct {
	Key           string `json:"key" jsonschema:"Redis key"`
	Value         string `json:"value" jsonschema:"String value to store"`
	ExpireSeconds *int   `json:"expireSeconds,omitempty" jsonschema:"Expiry in seconds; omitted or zero keeps the key without expiry"`
}

// NewInitRedisHandler creates the initRedisConnection handler.
func NewInitRedisHandler(deps *Dependencies) mcp.ToolHandlerFor[InitRedisInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input InitRedisInput) (*mcp.CallToolResult, any, error) {
		err := deps.KV.Init(ctx, kvstore.Address{
			Host:     input.Host,
			Port:     input.Port,
			Password: input.Password,
		})
		return deps.envelope("initRedisConnection", redisInitialized, err), nil, nil
	}
}

// NewListKeysHandler creates the getAllKeys handler.
func NewListKeysHandler(deps *Dependencies) mcp.ToolHandlerFor[struct{}, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
		keys, err := deps.KV.ListKeys(ctx)
		return deps.envelope("getAllKeys", keys, err), nil, nil
	}
}

// NewKeyInfoHandler creates the getKeyInfo handler.
func NewKeyInfoHandler(deps *Dependencies) mcp.ToolHandlerFor[KeyInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input KeyInput) (*mcp.CallToolResult, any, error) {
		info, err := deps.KV.KeyInfo(ctx, input.Key)
		return deps.envelope("getKeyInfo", info, err), nil, nil
	}
}

// NewExecuteCommandHandler creates the executeCommand handler.
func NewExecuteCommandHandler(deps *Dependencies) mcp.ToolHandlerFor[ExecuteCommandInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ExecuteCommandInput) (*mcp.CallToolResult, any, error) {
		result, err := deps.KV.Execute(ctx, input.Command)
		return deps.envelope("executeCommand", result, err), nil, nil
	}
}

// NewSetStringHandler creates the setStringValue handler.
func NewSetStringHandler(deps *Dependencies) mcp.ToolHandlerFor[SetStringInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SetStringInput) (*mcp.CallToolResult, any, error) {
		result, err := deps.KV.SetString(ctx, input.Key, input.Value, input.ExpireSeconds)
		return deps.envelope("setStringValue", result, err), nil, nil
	}
}

// NewGetStringHandler creates the getStringValue handler.
func NewGetStringHandler(deps *Dependencies) mcp.ToolHandlerFor[KeyInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input KeyInput) (*mcp.CallToolResult, any, error) {
		result, err := deps.KV.GetString(ctx, input.Key)
		return deps.envelope("getStringValue", result, err), nil, nil
	}
}

// NewDeleteKeyHandler creates the deleteKey handler.
func NewDeleteKeyHandler(deps *Dependencies) mcp.ToolHandlerFor[KeyInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input KeyInput) (*mcp.CallToolResult, any, error) {
		result, err := deps.KV.Delete(ctx, input.Key)
		return deps.envelope("deleteKey", result, err), nil, nil
	}
}
