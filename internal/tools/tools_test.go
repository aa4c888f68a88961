package tools_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/showmarks/internal/catalog"
	"github.com/raphaelgruber/showmarks/internal/metrics"
	"github.com/raphaelgruber/showmarks/internal/models"
	"github.com/raphaelgruber/showmarks/internal/service"
	"github.com/raphaelgruber/showmarks/internal/tools"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEpisodes() []models.Episode {
	return []models.Episode{
		{
			EpisodeNumber: 10,
			Title:         "Kubernetes Basics",
			Date:          models.NewDate(2022, time.February, 2),
			YouTubeID:     "k8s",
			Timestamps: []models.Timestamp{
				{Timestamp: "00:05:00", Topic: "pods"},
				{Timestamp: "00:15:00", Topic: "deployments"},
			},
		},
		{
			EpisodeNumber: 11,
			Title:         "Service Meshes",
			Date:          models.NewDate(2022, time.March, 3),
			YouTubeID:     "mesh",
			Timestamps: []models.Timestamp{
				{Timestamp: "00:03:00", Topic: "sidecar pods"},
			},
		},
	}
}

// connect runs a server with all tools on in-memory transports and returns a client session.
func connect(t *testing.T) (context.Context, *mcp.ClientSession) {
	t.Helper()

	server := mcp.NewServer(&mcp.Implementation{Name: "test-showmarks", Version: "0.0.1-test"}, nil)
	deps := &tools.Dependencies{
		Browse:      service.NewBrowseService(catalog.NewStaticStore(testEpisodes()), metrics.NewCollector(), testLogger()),
		Logger:      testLogger(),
		DefaultSort: models.SortRelevance,
	}
	tools.RegisterAll(server, deps)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	go func() {
		_ = server.Run(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err, "client should connect successfully")
	t.Cleanup(func() { _ = session.Close() })
	return ctx, session
}

func callTool(t *testing.T, ctx context.Context, session *mcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	res, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "content should be text")
	return text.Text, res.IsError
}

func TestListTools(t *testing.T) {
	ctx, session := connect(t)

	result, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	require.Len(t, result.Tools, tools.ToolCount)

	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"search_episodes", "get_episode", "catalog_stats", "ping"}, names)
}

func TestSearchEpisodes(t *testing.T) {
	ctx, session := connect(t)

	text, isErr := callTool(t, ctx, session, "search_episodes", map[string]any{"query": "pods"})
	require.False(t, isErr, text)

	var result tools.SearchEpisodesResult
	require.NoError(t, json.Unmarshal([]byte(text), &result))
	assert.Equal(t, 2, result.Results)
	assert.Equal(t, 2, result.Matches)
	require.Len(t, result.Episodes, 2)
	assert.Equal(t, 10, result.Episodes[0].EpisodeNumber)
	require.Len(t, result.Episodes[0].Timestamps, 1)
	assert.Equal(t, "https://www.youtube.com/watch?v=k8s&t=300s", result.Episodes[0].Timestamps[0].URL)
	assert.Equal(t, "2022-02-02", result.Episodes[0].Date)
}

func TestSearchEpisodesSortAndLimit(t *testing.T) {
	ctx, session := connect(t)

	text, isErr := callTool(t, ctx, session, "search_episodes", map[string]any{"sort": "newest", "limit": 1})
	require.False(t, isErr, text)

	var result tools.SearchEpisodesResult
	require.NoError(t, json.Unmarshal([]byte(text), &result))
	require.Len(t, result.Episodes, 1)
	assert.Equal(t, 11, result.Episodes[0].EpisodeNumber)
	assert.True(t, result.Truncated)
	assert.Equal(t, "Episodes: 2 • Timestamps: 3", result.Summary)
}

func TestSearchEpisodesInvalidInput(t *testing.T) {
	ctx, session := connect(t)

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"limit too large", map[string]any{"limit": 500}, "Limit must be 1-100. Reduce limit value"},
		{"unknown sort", map[string]any{"sort": "random"}, "Unknown sort random. Use relevance, newest or oldest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isErr := callTool(t, ctx, session, "search_episodes", tt.args)
			assert.True(t, isErr)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestGetEpisode(t *testing.T) {
	ctx, session := connect(t)

	text, isErr := callTool(t, ctx, session, "get_episode", map[string]any{"number": 11})
	require.False(t, isErr, text)

	var ep tools.EpisodeResult
	require.NoError(t, json.Unmarshal([]byte(text), &ep))
	assert.Equal(t, "Service Meshes", ep.Title)
	assert.Equal(t, "https://www.youtube.com/watch?v=mesh", ep.URL)
	require.Len(t, ep.Timestamps, 1)
	assert.Equal(t, "https://www.youtube.com/watch?v=mesh&t=180s", ep.Timestamps[0].URL)

	text, isErr = callTool(t, ctx, session, "get_episode", map[string]any{"number": 99})
	assert.True(t, isErr)
	assert.Contains(t, text, "Episode not found")

	_, isErr = callTool(t, ctx, session, "get_episode", map[string]any{"number": 0})
	assert.True(t, isErr)
}

func TestCatalogStats(t *testing.T) {
	ctx, session := connect(t)

	text, isErr := callTool(t, ctx, session, "catalog_stats", map[string]any{})
	require.False(t, isErr, text)

	var stats service.Stats
	require.NoError(t, json.Unmarshal([]byte(text), &stats))
	assert.Equal(t, 2, stats.Episodes)
	assert.Equal(t, 3, stats.Timestamps)
}

func TestPing(t *testing.T) {
	ctx, session := connect(t)

	text, isErr := callTool(t, ctx, session, "ping", map[string]any{})
	require.False(t, isErr)
	assert.Equal(t, "pong (catalog v1, 2 episodes)", text)

	text, _ = callTool(t, ctx, session, "ping", map[string]any{"echo": "hello"})
	assert.Equal(t, "hello", text)
}

func TestErrorResult(t *testing.T) {
	res := tools.ErrorResult("Bad input", "Try again")
	assert.True(t, res.IsError)
	assert.Equal(t, "Bad input. Try again", res.Content[0].(*mcp.TextContent).Text)

	res = tools.ErrorResult("Bad input", "")
	assert.Equal(t, "Bad input", res.Content[0].(*mcp.TextContent).Text)

	res = tools.TextResult("ok")
	assert.False(t, res.IsError)
}
