package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterAll registers all tools with the MCP server.
// This is called from main after server creation but before Run().
func RegisterAll(server *mcp.Server, deps *Dependencies) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_episodes",
		Description: "Search episodes by title and timestamp topics. Any query word may match (case-insensitive substring). Returns matching episodes with only the matching timestamps and YouTube deep links.",
	}, NewSearchEpisodesHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_episode",
		Description: "Retrieve one episode by its number with all timestamps and deep links",
	}, NewGetEpisodeHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "catalog_stats",
		Description: "Episode and timestamp counts plus search metrics",
	}, NewCatalogStatsHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ping",
		Description: "Check that the server is up. Echoes the given text or reports the catalog version",
	}, NewPingHandler(deps))
}

// ToolCount is the number of tools RegisterAll adds.
const ToolCount = 4
