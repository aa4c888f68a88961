package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CatalogStatsInput is empty; catalog_stats takes no arguments.
type CatalogStatsInput struct{}

// NewCatalogStatsHandler creates the catalog_stats tool handler.
func NewCatalogStatsHandler(deps *Dependencies) mcp.ToolHandlerFor[CatalogStatsInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CatalogStatsInput) (
		*mcp.CallToolResult, any, error,
	) {
		return JSONResult(deps.Browse.Stats()), nil, nil
	}
}
