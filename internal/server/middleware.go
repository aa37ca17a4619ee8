package server

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	maxArgLogLen  = 200
	slowRequestAt = 100 * time.Millisecond
)

var rePassword = regexp.MustCompile(`("password"\s*:\s*)"(?:[^"\\]|\\.)*"`)

// LoggingMiddleware records one line per JSON-RPC request. Failures log at
// ERROR, calls slower than 100ms at WARN, everything else at DEBUG. Tool
// arguments have password values masked before they are written.
func LoggingMiddleware(logger *slog.Logger) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			id := uuid.NewString()
			start := time.Now()
			result, err := next(ctx, method, req)
			elapsed := time.Since(start)

			level, msg := outcome(elapsed, err)
			if !logger.Enabled(ctx, level) {
				return result, err
			}

			attrs := []slog.Attr{
				slog.String("request_id", id),
				slog.String("method", method),
				slog.Int64("duration_ms", elapsed.Milliseconds()),
			}
			if params := describeParams(req); params != "" {
				attrs = append(attrs, slog.String("params", truncate(params, maxArgLogLen)))
			}
			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
			}
			logger.LogAttrs(ctx, level, msg, attrs...)
			return result, err
		}
	}
}

func outcome(elapsed time.Duration, err error) (slog.Level, string) {
	switch {
	case err != nil:
		return slog.LevelError, "request failed"
	case elapsed > slowRequestAt:
		return slog.LevelWarn, "slow request"
	default:
		return slog.LevelDebug, "request completed"
	}
}

// describeParams renders tool calls as "<name> <masked args>".
func describeParams(req mcp.Request) string {
	params := req.GetParams()
	if params == nil {
		return ""
	}
	call, ok := params.(*mcp.CallToolParamsRaw)
	if !ok {
		return fmt.Sprintf("%+v", params)
	}
	return call.Name + " " + maskPasswords(string(call.Arguments))
}

// truncate caps s at maxLen bytes, ending with "..." when there is room.
func truncate(s string, maxLen int) string {
	switch {
	case len(s) <= maxLen:
		return s
	case maxLen < 3:
		return s[:maxLen]
	default:
		return s[:maxLen-3] + "..."
	}
}

func maskPasswords(args string) string {
	return rePassword.ReplaceAllString(args, `${1}"***"`)
}
