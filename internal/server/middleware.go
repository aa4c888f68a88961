package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// maxArgLogLen is the maximum length for logged arguments before truncation.
const maxArgLogLen = 200

// slowRequestThreshold is the duration above which requests are logged at WARN level.
const slowRequestThreshold = 100 * time.Millisecond

// LoggingMiddleware logs every MCP request with its duration.
// Tool calls also log the tool name and whether the result is a tool error.
func LoggingMiddleware(logger *slog.Logger) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			start := time.Now()
			result, err := next(ctx, method, req)
			duration := time.Since(start)

			attrs := []any{
				"method", method,
				"duration_ms", duration.Milliseconds(),
			}

			raw := encodeParams(req)
			if name := toolName(raw); name != "" {
				attrs = append(attrs, "tool", name)
			}
			if raw != "" {
				attrs = append(attrs, "params", truncate(raw, maxArgLogLen))
			}
			if res, ok := result.(*mcp.CallToolResult); ok && res != nil && res.IsError {
				attrs = append(attrs, "tool_error", true)
			}

			switch {
			case err != nil:
				attrs = append(attrs, "error", err.Error())
				logger.Error("request failed", attrs...)
			case duration > slowRequestThreshold:
				logger.Warn("slow request", attrs...)
			default:
				logger.Debug("request completed", attrs...)
			}

			return result, err
		}
	}
}

// encodeParams renders request params as JSON, or "" when there are none.
func encodeParams(req mcp.Request) string {
	if req == nil {
		return ""
	}
	params := req.GetParams()
	if params == nil {
		return ""
	}
	data, err := json.Marshal(params)
	if err != nil || string(data) == "null" || string(data) == "{}" {
		return ""
	}
	return string(data)
}

// toolName extracts the "name" field of tools/call params.
func toolName(raw string) string {
	if raw == "" {
		return ""
	}
	var p struct {
		Name string `json:"name"`
	}
	if json.Unmarshal([]byte(raw), &p) != nil {
		return ""
	}
	return p.Name
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return s[:runeStart(s, maxLen)]
	}
	return s[:runeStart(s, maxLen-3)] + "..."
}

// runeStart returns the largest index <= n where a rune of s begins.
func runeStart(s string, n int) int {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return n
}
