package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/raphaelgruber/dbmcp-go/internal/response"
)

// TextResult creates a success result with text content.
func TextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// EnvelopeResult encodes the outcome of one store call as a single text
// envelope. Non-success envelopes set IsError so the caller can self-correct.
func EnvelopeResult(data any, err error) (*mcp.CallToolResult, response.Code) {
	text, code := response.Result(data, err)
	result := TextResult(text)
	result.IsError = code != response.Success
	return result, code
}

// envelope encodes a store result and logs the underlying cause of failures.
// The cause stays in the log and never reaches the caller.
func (d *Dependencies) envelope(tool string, data any, err error) *mcp.CallToolResult {
	result, code := EnvelopeResult(data, err)
	if err != nil {
		d.Logger.Warn("tool failed", "tool", tool, "code", int(code), "error", err)
	}
	return result
}
