package api

import (
	"github.com/raphaelgruber/showmarks/internal/models"
	"github.com/raphaelgruber/showmarks/internal/search"
	"github.com/raphaelgruber/showmarks/internal/service"
)

// TimestampView is a timestamp with its deep link and highlighted topic.
type TimestampView struct {
	Timestamp string `json:"timestamp"`
	Topic     string `json:"topic"`
	TopicHTML string `json:"topic_html"`
	Seconds   int    `json:"seconds"`
	URL       string `json:"url"`
}

// EpisodeView is an episode as returned by the API.
type EpisodeView struct {
	EpisodeNumber int             `json:"episode_number"`
	Title         string          `json:"title"`
	TitleHTML     string          `json:"title_html"`
	Date          models.Date     `json:"date"`
	YouTubeID     string          `json:"youtube_id"`
	URL           string          `json:"url"`
	Timestamps    []TimestampView `json:"timestamps"`
}

// PageView is a browse result ready for display.
type PageView struct {
	Query           string          `json:"query"`
	Sort            models.SortMode `json:"sort"`
	Episodes        []EpisodeView   `json:"episodes"`
	Results         int             `json:"results"`
	Matches         int             `json:"matches"`
	TotalEpisodes   int             `json:"total_episodes"`
	TotalTimestamps int             `json:"total_timestamps"`
	Truncated       bool            `json:"truncated"`
	Summary         string          `json:"summary"`
	CatalogVersion  int64           `json:"catalog_version"`
}

// NewEpisodeView renders ep with matches of query marked.
func NewEpisodeView(ep models.Episode, query string) EpisodeView {
	view := EpisodeView{
		EpisodeNumber: ep.EpisodeNumber,
		Title:         ep.Title,
		TitleHTML:     search.Highlight(ep.Title, query),
		Date:          ep.Date,
		YouTubeID:     ep.YouTubeID,
		URL:           ep.VideoURL(),
		Timestamps:    make([]TimestampView, 0, len(ep.Timestamps)),
	}
	for _, ts := range ep.Timestamps {
		view.Timestamps = append(view.Timestamps, TimestampView{
			Timestamp: ts.Timestamp,
			Topic:     ts.Topic,
			TopicHTML: search.Highlight(ts.Topic, query),
			Seconds:   ts.Seconds(),
			URL:       ep.TimestampURL(ts),
		})
	}
	return view
}

// NewPageView renders every episode of p.
func NewPageView(p *service.Page) *PageView {
	view := &PageView{
		Query:           p.Query,
		Sort:            p.Sort,
		Episodes:        make([]EpisodeView, 0, len(p.Episodes)),
		Results:         p.Results,
		Matches:         p.Matches,
		TotalEpisodes:   p.TotalEpisodes,
		TotalTimestamps: p.TotalTimestamps,
		Truncated:       p.Truncated,
		Summary:         p.Summary,
		CatalogVersion:  p.CatalogVersion,
	}
	for _, ep := range p.Episodes {
		view.Episodes = append(view.Episodes, NewEpisodeView(ep, p.Query))
	}
	return view
}
