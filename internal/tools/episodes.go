package tools

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/raphaelgruber/showmarks/internal/models"
	"github.com/raphaelgruber/showmarks/internal/service"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// SearchEpisodesInput defines the input schema for the search_episodes tool.
type SearchEpisodesInput struct {
	Query string `json:"query,omitempty" jsonschema:"Free-text query. Empty lists every episode"`
	Sort  string `json:"sort,omitempty" jsonschema:"One of relevance (default), newest, oldest"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max episodes 1-100, default 20"`
}

// GetEpisodeInput defines the input schema for the get_episode tool.
type GetEpisodeInput struct {
	Number int `json:"number" jsonschema:"The episode number"`
}

// TimestampLink is a timestamp with its playback deep link.
type TimestampLink struct {
	Timestamp string `json:"timestamp"`
	Topic     string `json:"topic"`
	URL       string `json:"url"`
}

// EpisodeResult is the tool representation of an episode.
type EpisodeResult struct {
	EpisodeNumber int             `json:"episode_number"`
	Title         string          `json:"title"`
	Date          string          `json:"date"`
	URL           string          `json:"url"`
	Timestamps    []TimestampLink `json:"timestamps"`
}

// SearchEpisodesResult is returned by search_episodes.
type SearchEpisodesResult struct {
	Query     string          `json:"query"`
	Sort      models.SortMode `json:"sort"`
	Summary   string          `json:"summary"`
	Results   int             `json:"results"`
	Matches   int             `json:"matches"`
	Truncated bool            `json:"truncated"`
	Episodes  []EpisodeResult `json:"episodes"`
}

func newEpisodeResult(ep models.Episode) EpisodeResult {
	r := EpisodeResult{
		EpisodeNumber: ep.EpisodeNumber,
		Title:         ep.Title,
		Date:          ep.Date.String(),
		URL:           ep.VideoURL(),
		Timestamps:    make([]TimestampLink, 0, len(ep.Timestamps)),
	}
	for _, ts := range ep.Timestamps {
		r.Timestamps = append(r.Timestamps, TimestampLink{
			Timestamp: ts.Timestamp,
			Topic:     ts.Topic,
			URL:       ep.TimestampURL(ts),
		})
	}
	return r
}

// NewSearchEpisodesHandler creates the search_episodes tool handler.
func NewSearchEpisodesHandler(deps *Dependencies) mcp.ToolHandlerFor[SearchEpisodesInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchEpisodesInput) (
		*mcp.CallToolResult, any, error,
	) {
		limit := input.Limit
		if limit <= 0 {
			limit = defaultLimit
		}
		if limit > maxLimit {
			return ErrorResult("Limit must be 1-100", "Reduce limit value"), nil, nil
		}

		sort := deps.DefaultSort
		if input.Sort != "" {
			sort = models.SortMode(strings.ToLower(strings.TrimSpace(input.Sort)))
			if !slices.Contains(models.SortModes, sort) {
				return ErrorResult("Unknown sort "+input.Sort, "Use relevance, newest or oldest"), nil, nil
			}
		}

		page, err := deps.Browse.Browse(ctx, service.BrowseOptions{
			Query: input.Query,
			Sort:  sort,
			Limit: limit,
		})
		if err != nil {
			deps.Logger.Error("search failed", "error", err)
			return ErrorResult("Search failed", ""), nil, nil
		}

		result := SearchEpisodesResult{
			Query:     page.Query,
			Sort:      page.Sort,
			Summary:   page.Summary,
			Results:   page.Results,
			Matches:   page.Matches,
			Truncated: page.Truncated,
			Episodes:  make([]EpisodeResult, 0, len(page.Episodes)),
		}
		for _, ep := range page.Episodes {
			result.Episodes = append(result.Episodes, newEpisodeResult(ep))
		}

		deps.Logger.Info("search_episodes completed",
			"query", truncateQuery(input.Query),
			"results", page.Results,
		)
		return JSONResult(result), nil, nil
	}
}

// NewGetEpisodeHandler creates the get_episode tool handler.
func NewGetEpisodeHandler(deps *Dependencies) mcp.ToolHandlerFor[GetEpisodeInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetEpisodeInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.Number <= 0 {
			return ErrorResult("Episode number must be positive", "Use search_episodes to find numbers"), nil, nil
		}

		ep, err := deps.Browse.Episode(ctx, input.Number)
		if errors.Is(err, service.ErrEpisodeNotFound) {
			return ErrorResult("Episode not found", "Use search_episodes to find numbers"), nil, nil
		}
		if err != nil {
			deps.Logger.Error("get episode failed", "number", input.Number, "error", err)
			return ErrorResult("Lookup failed", ""), nil, nil
		}

		return JSONResult(newEpisodeResult(*ep)), nil, nil
	}
}

// truncateQuery shortens a query to 30 characters for logging.
func truncateQuery(q string) string {
	runes := []rune(q)
	if len(runes) > 30 {
		return string(runes[:30]) + "..."
	}
	return q
}
